package repository

import (
	"errors"
	"testing"

	"haven/internal/domain"
	"haven/internal/models"
)

func seedNotifications(t *testing.T, repo *NotificationRepository, recipientID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Create(&models.Notification{
			RecipientID: recipientID,
			ActorKind:   domain.EntityUser,
			ActorID:     99,
			Verb:        domain.VerbUserFollowing,
			Description: "you have a notification",
		})
		if err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}
}

func TestCreateStartsUnreadUnsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")

	// Flags on the incoming struct must not override the creation state.
	err := repo.Create(&models.Notification{
		RecipientID: u.ID,
		ActorKind:   domain.EntityUser,
		ActorID:     99,
		Verb:        domain.VerbUserFollowing,
		Description: "hi",
		Unread:      false,
		Sent:        true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := repo.ListAll(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	if !list[0].Unread || list[0].Sent {
		t.Errorf("created state unread=%v sent=%v, want unread=true sent=false", list[0].Unread, list[0].Sent)
	}
}

func TestListAllReturnsEverySend(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")
	const n = 10
	seedNotifications(t, repo, u.ID, n)

	list, err := repo.ListAll(u.ID)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(list) != n {
		t.Fatalf("got %d notifications, want %d", len(list), n)
	}
	for _, item := range list {
		if !item.Unread {
			t.Errorf("notification %d read before any mark-read", item.ID)
		}
	}
}

func TestUnsentDrainsAfterMarkAllSent(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")
	const n = 5
	seedNotifications(t, repo, u.ID, n)

	unsent, err := repo.ListUnsent(u.ID)
	if err != nil {
		t.Fatalf("list unsent: %v", err)
	}
	if len(unsent) != n {
		t.Fatalf("before marking: got %d unsent, want %d", len(unsent), n)
	}

	if err := repo.MarkAllSent(u.ID); err != nil {
		t.Fatalf("mark all sent: %v", err)
	}
	unsent, err = repo.ListUnsent(u.ID)
	if err != nil {
		t.Fatalf("list unsent: %v", err)
	}
	if len(unsent) != 0 {
		t.Fatalf("after marking: got %d unsent, want 0", len(unsent))
	}

	// Idempotent: a second pass changes nothing.
	if err := repo.MarkAllSent(u.ID); err != nil {
		t.Fatalf("second mark all sent: %v", err)
	}
	sent, err := repo.ListSent(u.ID)
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if len(sent) != n {
		t.Fatalf("got %d sent, want %d", len(sent), n)
	}
}

func TestMarkReadFlipsOnlyOneRecord(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")
	const n = 4
	seedNotifications(t, repo, u.ID, n)

	all, _ := repo.ListAll(u.ID)
	if err := repo.MarkRead(all[0].ID, u.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	read, _ := repo.ListRead(u.ID)
	unread, _ := repo.ListUnread(u.ID)
	if len(read) != 1 {
		t.Errorf("got %d read, want 1", len(read))
	}
	if len(unread) != n-1 {
		t.Errorf("got %d unread, want %d", len(unread), n-1)
	}

	// Marking an already-read record is a no-op, not an error.
	if err := repo.MarkRead(all[0].ID, u.ID); err != nil {
		t.Fatalf("re-mark read: %v", err)
	}
}

func TestMarkReadUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")

	err := repo.MarkRead(12345, u.ID)
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("got %v, want ErrNotificationNotFound", err)
	}
}

func TestMarkReadForeignRecipient(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	owner := mustCreateUser(t, db, "owner")
	other := mustCreateUser(t, db, "other")
	seedNotifications(t, repo, owner.ID, 1)

	all, _ := repo.ListAll(owner.ID)
	err := repo.MarkRead(all[0].ID, other.ID)
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("got %v, want ErrNotificationNotFound for foreign recipient", err)
	}
	unread, _ := repo.ListUnread(owner.ID)
	if len(unread) != 1 {
		t.Errorf("owner's record was mutated by a foreign mark-read")
	}
}

func TestSoftDeleteAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	u := mustCreateUser(t, db, "lena")
	const n = 7
	seedNotifications(t, repo, u.ID, n)

	count, err := repo.SoftDeleteAll(u.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if count != n {
		t.Errorf("deleted %d, want %d", count, n)
	}

	for name, list := range map[string]func(uint) ([]models.Notification, error){
		"all":    repo.ListAll,
		"unread": repo.ListUnread,
		"read":   repo.ListRead,
		"unsent": repo.ListUnsent,
		"sent":   repo.ListSent,
	} {
		got, err := list(u.ID)
		if err != nil {
			t.Fatalf("list %s: %v", name, err)
		}
		if len(got) != 0 {
			t.Errorf("%s view returned %d records after delete, want 0", name, len(got))
		}
	}

	// Rows survive in storage.
	var stored int64
	db.Unscoped().Model(&models.Notification{}).Where("recipient_id = ?", u.ID).Count(&stored)
	if stored != n {
		t.Errorf("storage holds %d rows, want %d (soft delete must not remove)", stored, n)
	}

	// Second delete reports zero affected.
	count, err = repo.SoftDeleteAll(u.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if count != 0 {
		t.Errorf("second delete affected %d, want 0", count)
	}
}

func TestListingsAreScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	a := mustCreateUser(t, db, "alfa")
	b := mustCreateUser(t, db, "bravo")
	seedNotifications(t, repo, a.ID, 3)

	list, err := repo.ListAll(b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("user b sees %d of user a's notifications", len(list))
	}

	// Marking b's inbox sent must not touch a's.
	if err := repo.MarkAllSent(b.ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	unsent, _ := repo.ListUnsent(a.ID)
	if len(unsent) != 3 {
		t.Errorf("a has %d unsent, want 3", len(unsent))
	}
}
