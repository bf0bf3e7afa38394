package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/metrics"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

const (
	defaultWorkers  = 4
	defaultBuffer   = 256
	previewLength   = 200
	deliveryTimeout = 5 * time.Second
)

// Dispatcher fans activity events out into per-user notifications in the
// background. Enqueueing never blocks the request path: when the buffer is
// full the event is dropped and counted.
type Dispatcher struct {
	users         repository.UserRepository
	follows       repository.FollowRepository
	communities   repository.CommunityRepository
	notifications repository.NotificationRepository

	baseURL string
	workers int

	events chan event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a dispatcher. baseURL is the public site root used in
// notification links, e.g. "https://socio.africa".
func NewDispatcher(
	users repository.UserRepository,
	follows repository.FollowRepository,
	communities repository.CommunityRepository,
	notifications repository.NotificationRepository,
	baseURL string,
) *Dispatcher {
	if baseURL == "" {
		baseURL = "https://socio.africa"
	}

	return &Dispatcher{
		users:         users,
		follows:       follows,
		communities:   communities,
		notifications: notifications,
		baseURL:       baseURL,
		workers:       defaultWorkers,
		events:        make(chan event, defaultBuffer),
	}
}

// Start begins processing events with the worker pool
func (d *Dispatcher) Start() {
	logger.Info("Starting notification dispatcher", zap.Int("workers", d.workers))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop closes the queue and waits for in-flight events to drain
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()

	d.wg.Wait()
	logger.Info("Notification dispatcher stopped")
}

// PostCreated fans a new post (or share) out to its audience.
func (d *Dispatcher) PostCreated(post *models.Post) {
	if post == nil {
		return
	}
	d.enqueue(event{kind: eventPost, initiatorID: post.UserID, post: post})
}

// CommentCreated notifies the post author and the users the comment answers.
func (d *Dispatcher) CommentCreated(comment *models.Comment, post *models.Post) {
	if comment == nil || post == nil {
		return
	}
	d.enqueue(event{kind: eventComment, initiatorID: comment.UserID, comment: comment, post: post})
}

// PostReaction notifies the post author about a new reaction.
func (d *Dispatcher) PostReaction(postID, authorID, reactorID string, kind models.ReactionKind) {
	d.enqueue(event{
		kind:         eventReaction,
		initiatorID:  reactorID,
		reaction:     kind,
		targetUserID: authorID,
		postID:       postID,
	})
}

// CommentReaction notifies the comment author about a new reaction.
func (d *Dispatcher) CommentReaction(commentID, postID, authorID, reactorID string, kind models.ReactionKind) {
	d.enqueue(event{
		kind:         eventReaction,
		initiatorID:  reactorID,
		reaction:     kind,
		targetUserID: authorID,
		postID:       postID,
		commentID:    commentID,
	})
}

// FollowCreated notifies a user about a new follower.
func (d *Dispatcher) FollowCreated(followerID, followingID string) {
	d.enqueue(event{kind: eventFollow, initiatorID: followerID, followingID: followingID})
}

func (d *Dispatcher) enqueue(ev event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.events <- ev:
		metrics.Get().NotificationQueueDepth.Inc()
	default:
		metrics.Get().NotificationsDroppedTotal.Inc()
		logger.Warn("notification queue full, dropping event",
			zap.String("kind", string(ev.kind)),
			zap.String("initiated_by", ev.initiatorID))
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for ev := range d.events {
		metrics.Get().NotificationQueueDepth.Dec()

		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := d.process(ctx, ev); err != nil {
			metrics.Get().NotificationsFailedTotal.WithLabelValues(string(ev.kind)).Inc()
			logger.Error("notification fan-out failed",
				zap.Int("worker_id", id),
				zap.String("kind", string(ev.kind)),
				zap.Error(err))
		}
		cancel()
	}
}

func (d *Dispatcher) process(ctx context.Context, ev event) error {
	initiator, err := d.users.GetUser(ctx, ev.initiatorID)
	if err != nil {
		return fmt.Errorf("load initiator: %w", err)
	}

	switch ev.kind {
	case eventPost:
		return d.fanOutPost(ctx, initiator, ev.post)
	case eventComment:
		return d.fanOutComment(ctx, initiator, ev.comment, ev.post)
	case eventReaction:
		return d.fanOutReaction(ctx, initiator, ev)
	case eventFollow:
		return d.fanOutFollow(ctx, initiator, ev.followingID)
	default:
		return fmt.Errorf("unknown event kind %q", ev.kind)
	}
}

// fanOutPost delivers to community members for community posts, otherwise to
// the author's followers. The initiator never notifies themselves.
func (d *Dispatcher) fanOutPost(ctx context.Context, initiator *models.User, post *models.Post) error {
	var recipients []string
	var err error

	if post.Visibility.Mode == models.VisibilityCommunity && post.Visibility.CommunityID != "" {
		recipients, err = d.communities.GetMemberIDs(ctx, post.Visibility.CommunityID)
	} else {
		recipients, err = d.follows.GetFollowerIDs(ctx, post.UserID)
	}
	if err != nil {
		return fmt.Errorf("resolve audience: %w", err)
	}

	verb := "posted"
	if post.IsShare() {
		verb = "shared a post"
	}
	content := fmt.Sprintf("%s %s", initiator.DisplayName(), verb)
	if post.Content != "" {
		content = fmt.Sprintf("%s: %s", content, util.Truncate(post.Content, previewLength))
	}

	ref := models.NotificationRef{Mode: models.NotifyPost, RefID: post.ID, PostID: post.ID}
	url := d.postURL(post.ID)

	for _, userID := range recipients {
		if userID == initiator.ID {
			continue
		}
		d.deliver(ctx, userID, initiator.ID, content, url, ref)
	}
	return nil
}

// fanOutComment delivers to the post author and the answered user, deduped,
// never back to the commenter.
func (d *Dispatcher) fanOutComment(ctx context.Context, initiator *models.User, comment *models.Comment, post *models.Post) error {
	seen := map[string]bool{initiator.ID: true}
	recipients := make([]string, 0, 2)

	if !seen[post.UserID] {
		seen[post.UserID] = true
		recipients = append(recipients, post.UserID)
	}
	if comment.ReplyTo != nil && !seen[*comment.ReplyTo] {
		seen[*comment.ReplyTo] = true
		recipients = append(recipients, *comment.ReplyTo)
	}

	verb := "commented on a post"
	if comment.ParentCommentID != nil {
		verb = "replied to a comment"
	}
	content := fmt.Sprintf("%s %s: %s", initiator.DisplayName(), verb, util.Truncate(comment.Content, previewLength))

	ref := models.NotificationRef{Mode: models.NotifyComment, RefID: comment.ID, PostID: post.ID}
	url := d.postURL(post.ID)

	for _, userID := range recipients {
		d.deliver(ctx, userID, initiator.ID, content, url, ref)
	}
	return nil
}

func (d *Dispatcher) fanOutReaction(ctx context.Context, initiator *models.User, ev event) error {
	if ev.targetUserID == "" || ev.targetUserID == initiator.ID {
		return nil
	}

	verb := "liked"
	if ev.reaction == models.ReactionDislike {
		verb = "disliked"
	}

	target := "your post"
	refID := ev.postID
	if ev.commentID != "" {
		target = "your comment"
		refID = ev.commentID
	}

	content := fmt.Sprintf("%s %s %s", initiator.DisplayName(), verb, target)
	ref := models.NotificationRef{Mode: models.NotifyReaction, RefID: refID, PostID: ev.postID}

	d.deliver(ctx, ev.targetUserID, initiator.ID, content, d.postURL(ev.postID), ref)
	return nil
}

func (d *Dispatcher) fanOutFollow(ctx context.Context, initiator *models.User, followingID string) error {
	if followingID == "" || followingID == initiator.ID {
		return nil
	}

	content := fmt.Sprintf("%s started following you", initiator.DisplayName())
	ref := models.NotificationRef{Mode: models.NotifyFollow, RefID: initiator.ID}
	url := fmt.Sprintf("%s/users/%s", d.baseURL, initiator.ID)

	d.deliver(ctx, followingID, initiator.ID, content, url, ref)
	return nil
}

// deliver writes one notification row. Failures are counted and logged but
// never bubble up: one bad recipient must not stop the rest of the fan-out.
func (d *Dispatcher) deliver(ctx context.Context, userID, initiatorID, content, url string, ref models.NotificationRef) {
	n := &models.Notification{
		UserID:      userID,
		InitiatedBy: initiatorID,
		Content:     content,
		URL:         url,
		Ref:         ref,
	}

	if err := d.notifications.CreateNotification(ctx, n); err != nil {
		metrics.Get().NotificationsFailedTotal.WithLabelValues(string(ref.Mode)).Inc()
		logger.Error("notification write failed",
			logger.WithUserID(userID),
			zap.String("mode", string(ref.Mode)),
			zap.Error(err))
		return
	}

	metrics.Get().NotificationsDispatchedTotal.WithLabelValues(string(ref.Mode)).Inc()
}

func (d *Dispatcher) postURL(postID string) string {
	return fmt.Sprintf("%s/posts/%s", d.baseURL, postID)
}
