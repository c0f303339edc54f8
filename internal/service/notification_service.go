package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"haven/internal/domain"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/ws"
	"haven/pkg/mailer"

	"github.com/sirupsen/logrus"
)

// ErrUnknownMention is returned when a comment mentions a username that does
// not exist. Unlike the rest of the fan-out this is a hard error: the caller
// must reject the comment.
var ErrUnknownMention = errors.New("mentioned user does not exist")

// NotificationService resolves domain events into inbox records. It is the
// only writer of notifications; handlers call its event-specific methods
// inline with the mutation. Record creation is best-effort everywhere except
// mention resolution: a failed insert is logged and the triggering mutation
// proceeds.
type NotificationService struct {
	repo       *repository.NotificationRepository
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	mail       *mailer.Mailer
	hub        *ws.Hub
	log        *logrus.Logger
	articleURL string
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	mail *mailer.Mailer,
	hub *ws.Hub,
	log *logrus.Logger,
	baseURL string,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		userRepo:   userRepo,
		followRepo: followRepo,
		mail:       mail,
		hub:        hub,
		log:        log,
		articleURL: baseURL + "/api/articles/",
	}
}

// record creates one notification and pushes it to the recipient's open
// websocket connections. Unknown verbs are dropped.
func (s *NotificationService) record(recipientID uint, actor models.EntityRef, verb string, target *models.EntityRef, description string, data map[string]interface{}) {
	if !domain.ValidVerb(verb) {
		s.log.WithField("verb", verb).Error("dropping notification with unknown verb")
		return
	}
	n := &models.Notification{
		RecipientID: recipientID,
		ActorKind:   actor.Kind,
		ActorID:     actor.ID,
		Verb:        verb,
		Description: description,
	}
	if target != nil {
		n.TargetKind = target.Kind
		n.TargetID = target.ID
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			n.Data = b
		}
	}
	if err := s.repo.Create(n); err != nil {
		s.log.WithFields(logrus.Fields{"recipient": recipientID, "verb": verb}).
			WithError(err).Error("notification create failed")
		return
	}
	if s.hub != nil {
		s.hub.NotifyUser(recipientID, map[string]interface{}{"type": "notification", "notification": n})
	}
}

// sendEmail delivers best-effort: failures are logged, never returned.
func (s *NotificationService) sendEmail(ctx context.Context, template, to, subject string, data map[string]string) {
	if s.mail == nil {
		return
	}
	if err := s.mail.SendTemplate(ctx, template, to, subject, data); err != nil {
		s.log.WithError(err).Warn("notification email failed")
	}
}

// NotifyFollow records a user_following notification for the followed user.
// The caller rejects self-follow, but the self-exclusion is enforced here too.
func (s *NotificationService) NotifyFollow(follower, followed *models.User) {
	if follower.ID == followed.ID {
		return
	}
	s.record(followed.ID,
		models.EntityRef{Kind: domain.EntityUser, ID: follower.ID},
		domain.VerbUserFollowing, nil,
		fmt.Sprintf("%s has just followed you!", follower.Username),
		map[string]interface{}{"username": follower.Username})
}

// NotifyArticleCreated fans out to every follower of the author. Followers
// with the email subscription enabled additionally get an email.
func (s *NotificationService) NotifyArticleCreated(ctx context.Context, article *models.Article, author *models.User) {
	followers, err := s.followRepo.Followers(author.ID)
	if err != nil {
		s.log.WithError(err).Error("article fan-out: follower lookup failed")
		return
	}
	actor := models.EntityRef{Kind: domain.EntityArticle, ID: article.ID}
	for i := range followers {
		follower := &followers[i]
		if follower.IsSubscribed {
			s.sendEmail(ctx, mailer.TemplateArticleCreated, follower.Email, "You have a new notification", map[string]string{
				"Username":     follower.Username,
				"ArticleTitle": article.Title,
				"Author":       author.Username,
				"ArticleURL":   s.articleURL + article.Slug,
			})
		}
		s.record(follower.ID, actor, domain.VerbArticleCreation, nil,
			"An article by an author you follow has been created",
			map[string]interface{}{"slug": article.Slug, "title": article.Title, "author": author.Username})
	}
}

// NotifyArticleReaction tells the author their article was liked or disliked.
// The author reacting to their own article produces nothing.
func (s *NotificationService) NotifyArticleReaction(actor *models.User, article *models.Article, kind string) {
	if actor.ID == article.AuthorID {
		return
	}
	verb := domain.VerbArticleLike
	word := "liked"
	if kind == domain.ReactionDislike {
		verb = domain.VerbArticleDislike
		word = "disliked"
	}
	s.record(article.AuthorID,
		models.EntityRef{Kind: domain.EntityUser, ID: actor.ID},
		verb, nil,
		fmt.Sprintf("%s just %s your article", actor.Username, word),
		map[string]interface{}{"slug": article.Slug})
}

// NotifyArticleFavorited tells the author. Favoriting one's own article is
// blocked upstream, so no guard here.
func (s *NotificationService) NotifyArticleFavorited(actor *models.User, article *models.Article) {
	s.record(article.AuthorID,
		models.EntityRef{Kind: domain.EntityArticle, ID: article.ID},
		domain.VerbArticleFavoriting, nil,
		fmt.Sprintf("%s just favorited your article", actor.Username),
		map[string]interface{}{"slug": article.Slug, "username": actor.Username})
}

// NotifyComment tells the article author about a new comment. Fires even
// when the author comments on their own article.
func (s *NotificationService) NotifyComment(comment *models.Comment, article *models.Article, commenter *models.User) {
	s.record(article.AuthorID,
		models.EntityRef{Kind: domain.EntityComment, ID: comment.ID},
		domain.VerbArticleComment, nil,
		fmt.Sprintf("%s commented on %q", commenter.Username, article.Title),
		map[string]interface{}{"slug": article.Slug, "comment_id": comment.ID})
}

// NotifyArticleRated tells the author their article was rated.
func (s *NotificationService) NotifyArticleRated(actor *models.User, article *models.Article, value int) {
	if actor.ID == article.AuthorID {
		return
	}
	s.record(article.AuthorID,
		models.EntityRef{Kind: domain.EntityUser, ID: actor.ID},
		domain.VerbArticleRating, nil,
		fmt.Sprintf("%s has rated your article %d/5", actor.Username, value),
		map[string]interface{}{"slug": article.Slug, "value": value})
}

// NotifyCommentLiked tells the comment author. Liking one's own comment
// produces nothing.
func (s *NotificationService) NotifyCommentLiked(actor *models.User, comment *models.Comment) {
	if actor.ID == comment.AuthorID {
		return
	}
	s.record(comment.AuthorID,
		models.EntityRef{Kind: domain.EntityUser, ID: actor.ID},
		domain.VerbCommentLike, nil,
		fmt.Sprintf("%s liked your comment", actor.Username),
		map[string]interface{}{"comment_id": comment.ID})
}

// ResolveMentions maps usernames to users. Any unknown username fails the
// whole resolution with ErrUnknownMention; the caller must not create the
// comment in that case.
func (s *NotificationService) ResolveMentions(usernames []string) ([]models.User, error) {
	users := make([]models.User, 0, len(usernames))
	for _, name := range usernames {
		u, err := s.userRepo.GetByUsername(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMention, name)
		}
		users = append(users, *u)
	}
	return users, nil
}

// NotifyMentions records one comment_mention per mentioned user, with the
// article as target context.
func (s *NotificationService) NotifyMentions(actor *models.User, mentioned []models.User, article *models.Article) {
	target := models.EntityRef{Kind: domain.EntityArticle, ID: article.ID}
	for i := range mentioned {
		s.record(mentioned[i].ID,
			models.EntityRef{Kind: domain.EntityUser, ID: actor.ID},
			domain.VerbCommentMention, &target,
			fmt.Sprintf("%s mentioned you in a comment", actor.Username),
			map[string]interface{}{"slug": article.Slug})
	}
}

// SetSubscription flips the per-user email opt-in and sends a confirmation
// or cancellation email. The flag write is the operation; the email is
// best-effort.
func (s *NotificationService) SetSubscription(ctx context.Context, user *models.User, subscribed bool) error {
	if err := s.userRepo.SetSubscribed(user.ID, subscribed); err != nil {
		return err
	}
	template := mailer.TemplateSubscribe
	subject := "Email subscription activated"
	if !subscribed {
		template = mailer.TemplateUnsubscribe
		subject = "Email subscription deactivated"
	}
	s.sendEmail(ctx, template, user.Email, subject, map[string]string{"Username": user.Username})
	return nil
}
