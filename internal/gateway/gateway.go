// Package gateway performs every mutation against the document store:
// create, edit and delete for wishes and comments, and the atomic cheer
// increment. All rules that must hold before a byte leaves the client are
// enforced here: identity gating, content validation, ownership re-checks
// and the in-flight guard against double submission.
package gateway

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/faults"
	"github.com/ranihwanifactory/2026newyear/internal/fortune"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/store"
)

const (
	WishCollection    = "wishes"
	CommentCollection = "comments"

	fortuneTimeout = 8 * time.Second
)

// IdentityGate supplies the current identity and routes anonymous
// attempts to a sign-in prompt. Satisfied by *session.Gate.
type IdentityGate interface {
	Require() (*models.Identity, error)
}

// ConfirmFunc asks the user to confirm an irreversible action.
type ConfirmFunc func(message string) bool

type Gateway struct {
	store    store.Store
	gate     IdentityGate
	fortunes fortune.Generator // nil disables fortune generation
	confirm  ConfirmFunc       // nil skips confirmation prompts
	fallback models.Location
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
}

func New(st store.Store, gate IdentityGate, fortunes fortune.Generator, confirm ConfirmFunc, fallback models.Location) *Gateway {
	return &Gateway{
		store:    st,
		gate:     gate,
		fortunes: fortunes,
		confirm:  confirm,
		fallback: fallback,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

// CreateRequest carries a new wish. Location is nil when geolocation was
// unavailable, denied or timed out; the fallback coordinate is used then.
type CreateRequest struct {
	Content  string
	Location *models.Location
}

// CreateWish validates, optionally asks the fortune generator, and writes
// the new record. A fortune failure degrades silently: the wish is posted
// without one.
func (g *Gateway) CreateWish(ctx context.Context, req CreateRequest) (*models.Wish, error) {
	ident, err := g.gate.Require()
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, faults.New(faults.Validation, "wish content must not be empty")
	}
	if !g.begin("create") {
		return nil, faults.New(faults.Validation, "a wish is already being submitted")
	}
	defer g.end("create")

	loc := g.fallback
	if req.Location != nil {
		loc = *req.Location
	}

	wish := &models.Wish{
		Author:    ident.AuthorName(),
		Content:   content,
		Location:  loc,
		CreatedAt: g.now(),
		OwnerID:   ident.UID,
		HorseType: randomHorse(),
	}

	if g.fortunes != nil {
		fctx, cancel := context.WithTimeout(ctx, fortuneTimeout)
		text, ferr := g.fortunes.Generate(fctx, content)
		cancel()
		if ferr != nil {
			logrus.WithError(ferr).Warn("Fortune generation failed, posting wish without one")
		} else {
			wish.Fortune = text
		}
	}

	fields := map[string]interface{}{
		"author":     wish.Author,
		"content":    wish.Content,
		"location":   map[string]interface{}{"lat": loc.Lat, "lng": loc.Lng},
		"cheers":     int64(0),
		"created_at": wish.CreatedAt,
		"owner_id":   wish.OwnerID,
		"horse_type": string(wish.HorseType),
	}
	if wish.Fortune != "" {
		fields["fortune"] = wish.Fortune
	}

	id, err := g.store.Insert(ctx, WishCollection, fields)
	if err != nil {
		return nil, surface(err, "failed to post wish")
	}
	wish.ID = id

	logrus.WithFields(logrus.Fields{"wishID": id, "userID": ident.UID}).Info("Wish posted")
	return wish, nil
}

// UpdateWish edits a wish's content. Only the content field is ever
// written; ownership is re-checked here even though the UI hides the
// control from non-owners, since the store enforces it too and a stale
// view could still attempt the call.
func (g *Gateway) UpdateWish(ctx context.Context, wish models.Wish, content string) error {
	ident, err := g.gate.Require()
	if err != nil {
		return err
	}
	if !wish.OwnedBy(ident) {
		return faults.New(faults.Permission, "only the author can edit this wish")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return faults.New(faults.Validation, "wish content must not be empty")
	}
	if !g.begin("update:" + wish.ID) {
		return faults.New(faults.Validation, "this wish is already being saved")
	}
	defer g.end("update:" + wish.ID)

	err = g.store.Update(ctx, WishCollection, wish.ID, map[string]interface{}{"content": content})
	if err != nil {
		return surface(err, "failed to update wish")
	}
	return nil
}

// DeleteWish removes a wish after explicit confirmation. Declining the
// confirmation aborts without dispatching anything.
func (g *Gateway) DeleteWish(ctx context.Context, wish models.Wish) error {
	ident, err := g.gate.Require()
	if err != nil {
		return err
	}
	if !wish.OwnedBy(ident) {
		return faults.New(faults.Permission, "only the author can delete this wish")
	}
	if g.confirm != nil && !g.confirm("소원을 삭제하시겠습니까?") {
		return nil
	}
	if !g.begin("delete:" + wish.ID) {
		return faults.New(faults.Validation, "this wish is already being deleted")
	}
	defer g.end("delete:" + wish.ID)

	if err := g.store.Delete(ctx, WishCollection, wish.ID); err != nil {
		return surface(err, "failed to delete wish")
	}
	logrus.WithFields(logrus.Fields{"wishID": wish.ID, "userID": ident.UID}).Info("Wish deleted")
	return nil
}

// Cheer adds one cheer through the store's atomic increment, so
// concurrent cheers from other sessions are never lost.
func (g *Gateway) Cheer(ctx context.Context, wishID string) error {
	if _, err := g.gate.Require(); err != nil {
		return err
	}
	if !g.begin("cheer:" + wishID) {
		return faults.New(faults.Validation, "cheer already in flight")
	}
	defer g.end("cheer:" + wishID)

	if err := g.store.Increment(ctx, WishCollection, wishID, "cheers", 1); err != nil {
		return surface(err, "failed to cheer")
	}
	return nil
}

// AddComment attaches a comment to a wish.
func (g *Gateway) AddComment(ctx context.Context, wishID, content string) (*models.Comment, error) {
	ident, err := g.gate.Require()
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, faults.New(faults.Validation, "comment must not be empty")
	}
	if !g.begin("comment:" + wishID) {
		return nil, faults.New(faults.Validation, "a comment is already being submitted")
	}
	defer g.end("comment:" + wishID)

	comment := &models.Comment{
		WishID:    wishID,
		OwnerID:   ident.UID,
		Author:    ident.AuthorName(),
		Content:   content,
		CreatedAt: g.now(),
	}
	fields := map[string]interface{}{
		"wish_id":    comment.WishID,
		"owner_id":   comment.OwnerID,
		"author":     comment.Author,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	}
	id, err := g.store.Insert(ctx, CommentCollection, fields)
	if err != nil {
		return nil, surface(err, "failed to post comment")
	}
	comment.ID = id
	return comment, nil
}

// UpdateComment edits a comment's content, owner only.
func (g *Gateway) UpdateComment(ctx context.Context, comment models.Comment, content string) error {
	ident, err := g.gate.Require()
	if err != nil {
		return err
	}
	if !comment.OwnedBy(ident) {
		return faults.New(faults.Permission, "only the author can edit this comment")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return faults.New(faults.Validation, "comment must not be empty")
	}

	err = g.store.Update(ctx, CommentCollection, comment.ID, map[string]interface{}{"content": content})
	if err != nil {
		return surface(err, "failed to update comment")
	}
	return nil
}

// DeleteComment removes a comment after confirmation, owner only.
func (g *Gateway) DeleteComment(ctx context.Context, comment models.Comment) error {
	ident, err := g.gate.Require()
	if err != nil {
		return err
	}
	if !comment.OwnedBy(ident) {
		return faults.New(faults.Permission, "only the author can delete this comment")
	}
	if g.confirm != nil && !g.confirm("댓글을 삭제하시겠습니까?") {
		return nil
	}

	if err := g.store.Delete(ctx, CommentCollection, comment.ID); err != nil {
		return surface(err, "failed to delete comment")
	}
	return nil
}

// begin marks an operation in flight; a second attempt while the first is
// pending is refused so the trigger stays effectively disabled.
func (g *Gateway) begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inflight[key] {
		return false
	}
	g.inflight[key] = true
	return true
}

func (g *Gateway) end(key string) {
	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()
}

// surface passes through already-classified store errors and wraps the rest.
func surface(err error, msg string) error {
	var fe *faults.Error
	if errors.As(err, &fe) {
		return fe
	}
	return faults.Wrap(faults.Unknown, msg, err)
}

var horseTypes = []models.HorseType{models.HorseRed, models.HorseGold, models.HorseWhite}

func randomHorse() models.HorseType {
	return horseTypes[rand.Intn(len(horseTypes))]
}
