package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"haven/internal/domain"
	"haven/internal/models"
	"haven/internal/repository"
	"haven/internal/ws"
	"haven/pkg/mailer"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type notifFixture struct {
	db       *gorm.DB
	svc      *NotificationService
	repo     *repository.NotificationRepository
	follows  *repository.FollowRepository
	provider *mailer.MockProvider
}

func newNotifFixture(t *testing.T) *notifFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Article{}, &models.Comment{}, &models.Notification{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	provider := mailer.NewMockProvider()
	repo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	svc := NewNotificationService(repo, userRepo, follows,
		mailer.New(provider, log, "http://test.local"), ws.NewHub(), log, "http://test.local")

	return &notifFixture{db: db, svc: svc, repo: repo, follows: follows, provider: provider}
}

func (f *notifFixture) user(t *testing.T, username string, subscribed bool) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", IsSubscribed: subscribed}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *notifFixture) article(t *testing.T, author *models.User, slug string) *models.Article {
	t.Helper()
	a := &models.Article{Slug: slug, Title: "Title of " + slug, Body: "body", AuthorID: author.ID}
	if err := f.db.Create(a).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}
	return a
}

func (f *notifFixture) inbox(t *testing.T, u *models.User) []models.Notification {
	t.Helper()
	list, err := f.repo.ListAll(u.ID)
	if err != nil {
		t.Fatalf("list inbox: %v", err)
	}
	return list
}

func TestFollowNotifiesFollowedUser(t *testing.T) {
	f := newNotifFixture(t)
	a := f.user(t, "alfa", false)
	b := f.user(t, "bravo", false)

	f.svc.NotifyFollow(a, b)

	inbox := f.inbox(t, b)
	if len(inbox) != 1 {
		t.Fatalf("b has %d notifications, want 1", len(inbox))
	}
	n := inbox[0]
	if n.Verb != domain.VerbUserFollowing {
		t.Errorf("verb %q, want %q", n.Verb, domain.VerbUserFollowing)
	}
	if n.Actor().Kind != domain.EntityUser || n.Actor().ID != a.ID {
		t.Errorf("actor %+v, want user %d", n.Actor(), a.ID)
	}
	if !strings.Contains(n.Description, "alfa") {
		t.Errorf("description %q does not name the follower", n.Description)
	}
	if len(f.inbox(t, a)) != 0 {
		t.Error("the follower notified themselves")
	}
}

func TestSelfFollowCreatesNothing(t *testing.T) {
	f := newNotifFixture(t)
	a := f.user(t, "alfa", false)

	f.svc.NotifyFollow(a, a)
	if got := len(f.inbox(t, a)); got != 0 {
		t.Fatalf("self-follow produced %d notifications, want 0", got)
	}
}

func TestArticleCreationFansOutToFollowers(t *testing.T) {
	f := newNotifFixture(t)
	author := f.user(t, "author", false)
	subbed := f.user(t, "subscribed", true)
	plain := f.user(t, "plain", false)
	stranger := f.user(t, "stranger", false)
	for _, follower := range []*models.User{subbed, plain} {
		if err := f.follows.Follow(follower.ID, author.ID); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}
	article := f.article(t, author, "fan-out")

	f.svc.NotifyArticleCreated(context.Background(), article, author)

	// Every follower gets an in-app record with the article as actor.
	for _, follower := range []*models.User{subbed, plain} {
		inbox := f.inbox(t, follower)
		if len(inbox) != 1 {
			t.Fatalf("%s has %d notifications, want 1", follower.Username, len(inbox))
		}
		if inbox[0].Verb != domain.VerbArticleCreation {
			t.Errorf("verb %q, want %q", inbox[0].Verb, domain.VerbArticleCreation)
		}
		if inbox[0].Actor().Kind != domain.EntityArticle || inbox[0].Actor().ID != article.ID {
			t.Errorf("actor %+v, want article %d", inbox[0].Actor(), article.ID)
		}
	}
	if len(f.inbox(t, stranger)) != 0 {
		t.Error("non-follower was notified")
	}
	if len(f.inbox(t, author)) != 0 {
		t.Error("author was notified about their own article")
	}

	// Only the subscribed follower gets an email.
	sent := f.provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("%d emails sent, want 1", len(sent))
	}
	if sent[0].To != subbed.Email {
		t.Errorf("email went to %s, want %s", sent[0].To, subbed.Email)
	}
	if !strings.Contains(sent[0].Body, article.Title) {
		t.Errorf("email body does not mention the article title")
	}
}

func TestEmailFailureDoesNotAbortFanOut(t *testing.T) {
	f := newNotifFixture(t)
	f.provider.Err = errors.New("smtp down")
	author := f.user(t, "author", false)
	subbed := f.user(t, "subscribed", true)
	if err := f.follows.Follow(subbed.ID, author.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	article := f.article(t, author, "mail-down")

	f.svc.NotifyArticleCreated(context.Background(), article, author)

	if got := len(f.inbox(t, subbed)); got != 1 {
		t.Fatalf("in-app record count %d, want 1 despite email failure", got)
	}
}

func TestReactionSelfExclusion(t *testing.T) {
	f := newNotifFixture(t)
	author := f.user(t, "author", false)
	reader := f.user(t, "reader", false)
	article := f.article(t, author, "liked")

	// Author reacting to their own article: nothing.
	f.svc.NotifyArticleReaction(author, article, domain.ReactionLike)
	if got := len(f.inbox(t, author)); got != 0 {
		t.Fatalf("self-like produced %d notifications, want 0", got)
	}

	f.svc.NotifyArticleReaction(reader, article, domain.ReactionLike)
	f.svc.NotifyArticleReaction(reader, article, domain.ReactionDislike)
	inbox := f.inbox(t, author)
	if len(inbox) != 2 {
		t.Fatalf("author has %d notifications, want 2", len(inbox))
	}
	verbs := map[string]bool{}
	for _, n := range inbox {
		verbs[n.Verb] = true
	}
	if !verbs[domain.VerbArticleLike] || !verbs[domain.VerbArticleDislike] {
		t.Errorf("verbs %v, want like and dislike", verbs)
	}
}

func TestCommentNotifiesArticleAuthorEvenOnOwnArticle(t *testing.T) {
	f := newNotifFixture(t)
	author := f.user(t, "author", false)
	article := f.article(t, author, "self-comment")
	comment := &models.Comment{ArticleID: article.ID, AuthorID: author.ID, Body: "note to self"}
	if err := f.db.Create(comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	// No upstream restriction on commenting on your own article; the record
	// is still created.
	f.svc.NotifyComment(comment, article, author)
	inbox := f.inbox(t, author)
	if len(inbox) != 1 {
		t.Fatalf("author has %d notifications, want 1", len(inbox))
	}
	if inbox[0].Verb != domain.VerbArticleComment {
		t.Errorf("verb %q, want %q", inbox[0].Verb, domain.VerbArticleComment)
	}
}

func TestCommentLikeSelfExclusion(t *testing.T) {
	f := newNotifFixture(t)
	author := f.user(t, "author", false)
	liker := f.user(t, "liker", false)
	article := f.article(t, author, "debated")
	comment := &models.Comment{ArticleID: article.ID, AuthorID: author.ID, Body: "hot take"}
	if err := f.db.Create(comment).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	f.svc.NotifyCommentLiked(author, comment)
	if got := len(f.inbox(t, author)); got != 0 {
		t.Fatalf("self-like on own comment produced %d notifications, want 0", got)
	}

	f.svc.NotifyCommentLiked(liker, comment)
	inbox := f.inbox(t, author)
	if len(inbox) != 1 || inbox[0].Verb != domain.VerbCommentLike {
		t.Fatalf("inbox %v, want one comment_like", inbox)
	}
}

func TestRecordDropsUnknownVerb(t *testing.T) {
	f := newNotifFixture(t)
	recipient := f.user(t, "recipient", false)

	f.svc.record(recipient.ID,
		models.EntityRef{Kind: domain.EntityUser, ID: 99},
		"article_boosting", nil, "should never persist", nil)

	if got := len(f.inbox(t, recipient)); got != 0 {
		t.Fatalf("unknown verb stored %d records, want 0", got)
	}
}

func TestResolveMentionsUnknownUsername(t *testing.T) {
	f := newNotifFixture(t)
	f.user(t, "real", false)

	_, err := f.svc.ResolveMentions([]string{"real", "ghost"})
	if !errors.Is(err, ErrUnknownMention) {
		t.Fatalf("got %v, want ErrUnknownMention", err)
	}

	users, err := f.svc.ResolveMentions([]string{"real"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(users) != 1 || users[0].Username != "real" {
		t.Fatalf("resolved %v, want [real]", users)
	}
}

func TestMentionCarriesArticleTarget(t *testing.T) {
	f := newNotifFixture(t)
	author := f.user(t, "author", false)
	mentioned := f.user(t, "mentioned", false)
	article := f.article(t, author, "context")

	f.svc.NotifyMentions(author, []models.User{*mentioned}, article)

	inbox := f.inbox(t, mentioned)
	if len(inbox) != 1 {
		t.Fatalf("mentioned user has %d notifications, want 1", len(inbox))
	}
	n := inbox[0]
	if n.Verb != domain.VerbCommentMention {
		t.Errorf("verb %q, want %q", n.Verb, domain.VerbCommentMention)
	}
	target, ok := n.Target()
	if !ok || target.Kind != domain.EntityArticle || target.ID != article.ID {
		t.Errorf("target %+v ok=%v, want article %d", target, ok, article.ID)
	}
}

// TestActivityScenario walks the follow → publish → favorite sequence and
// checks both inboxes end up with the expected unsent counts.
func TestActivityScenario(t *testing.T) {
	f := newNotifFixture(t)
	a := f.user(t, "ann", false)
	b := f.user(t, "ben", false)

	// A follows B.
	if err := f.follows.Follow(a.ID, b.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	f.svc.NotifyFollow(a, b)

	// B publishes; every follower of B (that is, A) is notified.
	article := f.article(t, b, "bens-piece")
	f.svc.NotifyArticleCreated(context.Background(), article, b)

	// A favorites B's article.
	f.svc.NotifyArticleFavorited(a, article)

	aUnsent, _ := f.repo.ListUnsent(a.ID)
	bUnsent, _ := f.repo.ListUnsent(b.ID)
	if len(aUnsent) != 1 {
		t.Errorf("a has %d unsent, want 1 (the article_creation)", len(aUnsent))
	}
	if len(bUnsent) != 2 {
		t.Errorf("b has %d unsent, want 2 (follow + favorite)", len(bUnsent))
	}
	bVerbs := map[string]bool{}
	for _, n := range bUnsent {
		bVerbs[n.Verb] = true
	}
	if !bVerbs[domain.VerbUserFollowing] || !bVerbs[domain.VerbArticleFavoriting] {
		t.Errorf("b's verbs %v, want user_following and article_favoriting", bVerbs)
	}
}

func TestSubscriptionToggle(t *testing.T) {
	f := newNotifFixture(t)
	u := f.user(t, "toggler", false)
	ctx := context.Background()

	if err := f.svc.SetSubscription(ctx, u, true); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := f.svc.SetSubscription(ctx, u, false); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	var fresh models.User
	if err := f.db.First(&fresh, u.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.IsSubscribed {
		t.Error("flag true after unsubscribe, want false")
	}

	sent := f.provider.Sent()
	if len(sent) != 2 {
		t.Fatalf("%d emails sent, want 2 (confirmation and cancellation)", len(sent))
	}
	if sent[0].Subject != "Email subscription activated" {
		t.Errorf("first subject %q", sent[0].Subject)
	}
	if sent[1].Subject != "Email subscription deactivated" {
		t.Errorf("second subject %q", sent[1].Subject)
	}
}
