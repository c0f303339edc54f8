package domain

// Notification verbs. The set is closed: the notification service drops
// records carrying a verb outside this list.
const (
	VerbUserFollowing     = "user_following"
	VerbArticleCreation   = "article_creation"
	VerbArticleLike       = "article_like"
	VerbArticleDislike    = "article_dislike"
	VerbArticleFavoriting = "article_favoriting"
	VerbArticleComment    = "article_comment"
	VerbArticleRating     = "article_rating"
	VerbCommentLike       = "comment_like"
	VerbCommentMention    = "comment_mention"
)

var verbs = map[string]struct{}{
	VerbUserFollowing:     {},
	VerbArticleCreation:   {},
	VerbArticleLike:       {},
	VerbArticleDislike:    {},
	VerbArticleFavoriting: {},
	VerbArticleComment:    {},
	VerbArticleRating:     {},
	VerbCommentLike:       {},
	VerbCommentMention:    {},
}

// ValidVerb reports whether v belongs to the notification taxonomy.
func ValidVerb(v string) bool {
	_, ok := verbs[v]
	return ok
}

// Entity kinds a notification actor or target can refer to.
const (
	EntityUser    = "user"
	EntityArticle = "article"
	EntityComment = "comment"
)

// Reaction kinds shared by articles and comments.
const (
	ReactionLike    = "LIKE"
	ReactionDislike = "DISLIKE"
)

// Rating bounds.
const (
	RatingMin = 1
	RatingMax = 5
)

// Violation report categories.
const (
	ViolationSpam          = "spam"
	ViolationHarassment    = "harassment"
	ViolationHateSpeech    = "hate_speech"
	ViolationInappropriate = "inappropriate_content"
	ViolationThreats       = "threats_violence_incitement"
)

// ViolationTypes maps each category to its display label.
var ViolationTypes = map[string]string{
	ViolationSpam:          "Spam",
	ViolationHarassment:    "Harassment",
	ViolationHateSpeech:    "Hate speech",
	ViolationInappropriate: "Inappropriate Content",
	ViolationThreats:       "Threats of violence and incitement",
}

// ValidViolationType reports whether t is a known report category.
func ValidViolationType(t string) bool {
	_, ok := ViolationTypes[t]
	return ok
}

// Violation report lifecycle.
const (
	ViolationPending  = "pending"
	ViolationApproved = "approved"
	ViolationRejected = "rejected"
)

// Moderator decisions on a reported article.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)
