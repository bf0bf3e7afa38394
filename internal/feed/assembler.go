package feed

import (
	"context"
	"errors"
	"time"

	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/metrics"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/repository"
	"go.uber.org/zap"
)

// ErrSourceMissing is returned when a share pointer's source post no longer
// exists. Single-post lookups surface it as 404; batch assembly skips the
// record.
var ErrSourceMissing = errors.New("shared source post missing")

// Assembler turns stored posts and comments into their client shapes:
// resolved share pointers, viewer-relative reaction summaries, bookmark and
// share flags, and the two-level comment tree.
type Assembler struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	bookmarks repository.BookmarkRepository
}

// NewAssembler creates a post response assembler
func NewAssembler(posts repository.PostRepository, comments repository.CommentRepository, bookmarks repository.BookmarkRepository) *Assembler {
	return &Assembler{
		posts:     posts,
		comments:  comments,
		bookmarks: bookmarks,
	}
}

// AssemblePost assembles one post for the given viewer. withComments attaches
// the full comment tree; feed pages pass false and only carry the count.
func (a *Assembler) AssemblePost(ctx context.Context, post *models.Post, viewerID string, withComments bool) (*PostView, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedAssemblyDuration.WithLabelValues("post").Observe(time.Since(start).Seconds())
	}()

	display := post
	if post.IsShare() {
		source, err := a.posts.GetPost(ctx, *post.ParentPostID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				metrics.Get().DanglingSharesTotal.Inc()
				return nil, ErrSourceMissing
			}
			return nil, err
		}
		display = source
	}

	view := &PostView{
		ID:           post.ID,
		Author:       display.User.Public(),
		Content:      display.Content,
		FileURLs:     display.FileURLs,
		Topic:        display.Topic,
		CreatedAt:    post.CreatedAt,
		Visibility:   display.Visibility,
		ParentPostID: post.ParentPostID,
		SharedBy:     post.SharedBy,
		Reactions:    SummarizeReactions(display.Reactions, viewerID),
	}

	// Decorations attach to the resolved post so every share of the same
	// source shows the same counters. Failures degrade to zero values.
	sourceID := display.ID

	if viewerID != "" {
		bookmarked, err := a.bookmarks.ExistsForPost(ctx, viewerID, sourceID)
		if err != nil {
			logger.Warn("bookmark lookup failed", logger.WithPostID(sourceID), zap.Error(err))
		}
		view.Bookmarked = bookmarked
	}

	shareCount, err := a.posts.CountShares(ctx, sourceID)
	if err != nil {
		logger.Warn("share count failed", logger.WithPostID(sourceID), zap.Error(err))
	}
	view.Shares.Count = shareCount

	if viewerID != "" {
		shared, err := a.posts.HasShared(ctx, sourceID, viewerID)
		if err != nil {
			logger.Warn("share lookup failed", logger.WithPostID(sourceID), zap.Error(err))
		}
		view.Shares.Shared = shared
	}

	commentCount, err := a.comments.CountByPost(ctx, sourceID)
	if err != nil {
		logger.Warn("comment count failed", logger.WithPostID(sourceID), zap.Error(err))
	}
	view.CommentsCount = commentCount

	if withComments {
		flat, err := a.comments.ListByPost(ctx, sourceID)
		if err != nil {
			logger.Warn("comment list failed", logger.WithPostID(sourceID), zap.Error(err))
		} else {
			view.Comments = a.AssembleCommentTree(ctx, flat, viewerID)
		}
	}

	return view, nil
}

// AssemblePosts assembles a feed page. Share pointers whose source is gone
// are skipped rather than failing the page.
func (a *Assembler) AssemblePosts(ctx context.Context, posts []models.Post, viewerID string) ([]*PostView, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedAssemblyDuration.WithLabelValues("feed").Observe(time.Since(start).Seconds())
	}()

	views := make([]*PostView, 0, len(posts))
	for i := range posts {
		view, err := a.AssemblePost(ctx, &posts[i], viewerID, false)
		if errors.Is(err, ErrSourceMissing) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// AssembleComment assembles one comment without replies.
func (a *Assembler) AssembleComment(ctx context.Context, comment *models.Comment, viewerID string) *CommentView {
	view := &CommentView{
		ID:              comment.ID,
		PostID:          comment.PostID,
		Author:          comment.User.Public(),
		Content:         comment.Content,
		CreatedAt:       comment.CreatedAt,
		ParentCommentID: comment.ParentCommentID,
		ReplyTo:         comment.ReplyTo,
		Reactions:       SummarizeReactions(comment.Reactions, viewerID),
	}

	if viewerID != "" {
		bookmarked, err := a.bookmarks.ExistsForComment(ctx, viewerID, comment.ID)
		if err != nil {
			logger.Warn("comment bookmark lookup failed", zap.String("comment_id", comment.ID), zap.Error(err))
		}
		view.Bookmarked = bookmarked
	}

	return view
}

// AssembleCommentTree builds the two-level tree from a flat, chronologically
// ordered comment list. Replies attach to their parent in order; replies
// whose parent is missing from the list are dropped.
func (a *Assembler) AssembleCommentTree(ctx context.Context, flat []models.Comment, viewerID string) []*CommentView {
	parents := make([]*CommentView, 0, len(flat))
	byID := make(map[string]*CommentView, len(flat))

	for i := range flat {
		c := &flat[i]
		if c.ParentCommentID != nil {
			continue
		}
		view := a.AssembleComment(ctx, c, viewerID)
		parents = append(parents, view)
		byID[c.ID] = view
	}

	for i := range flat {
		c := &flat[i]
		if c.ParentCommentID == nil {
			continue
		}
		parent, ok := byID[*c.ParentCommentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, a.AssembleComment(ctx, c, viewerID))
	}

	return parents
}
