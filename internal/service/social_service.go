package service

import (
	"context"
	"log/slog"
	"strings"

	"socialschema/internal/models"
	"socialschema/internal/observability"
	"socialschema/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// SocialService provides follow, like, comment and messaging operations.
type SocialService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	followerRepo repository.FollowerRepository
	messageRepo  repository.DirectMessageRepository
}

// SocialRepositories groups the repositories SocialService depends on.
type SocialRepositories struct {
	Users     repository.UserRepository
	Posts     repository.PostRepository
	Comments  repository.CommentRepository
	Likes     repository.LikeRepository
	Followers repository.FollowerRepository
	Messages  repository.DirectMessageRepository
}

// NewSocialService returns a new SocialService.
func NewSocialService(repos SocialRepositories) *SocialService {
	return &SocialService{
		userRepo:     repos.Users,
		postRepo:     repos.Posts,
		commentRepo:  repos.Comments,
		likeRepo:     repos.Likes,
		followerRepo: repos.Followers,
		messageRepo:  repos.Messages,
	}
}

// Follow makes followerID follow followedID. Following someone twice is a no-op.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("Cannot follow yourself")
	}

	span, ctx := observability.NewSpan(ctx, "SocialService.Follow",
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("followed.id", int64(followedID)))
	var err error
	defer func() { span.End(err) }()

	if _, err = s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	var exists bool
	exists, err = s.followerRepo.Exists(ctx, followerID, followedID)
	if err != nil || exists {
		return err
	}

	err = s.followerRepo.Create(ctx, &models.Follower{FollowerUserID: followerID, FollowedID: followedID})
	if models.ConstraintKindOf(err) == models.ConstraintUnique {
		// A concurrent Follow inserted the same edge first.
		err = nil
		return nil
	}
	if err == nil {
		observability.Logger.DebugContext(ctx, "Follow edge created",
			slog.Uint64("follower_id", uint64(followerID)),
			slog.Uint64("followed_id", uint64(followedID)),
		)
	}
	return err
}

// Unfollow removes the follow edge; NOT_FOUND when followerID does not follow followedID.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.followerRepo.Delete(ctx, followerID, followedID)
}

// Followers returns the users following userID.
func (s *SocialService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followerRepo.ListFollowers(ctx, userID)
}

// Following returns the users userID follows.
func (s *SocialService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followerRepo.ListFollowing(ctx, userID)
}

// LikePost records that userID likes postID. Liking a post twice is a no-op.
func (s *SocialService) LikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}

	exists, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil || exists {
		return err
	}
	err = s.likeRepo.Create(ctx, &models.Like{UserID: userID, PostID: postID})
	if models.ConstraintKindOf(err) == models.ConstraintUnique {
		return nil
	}
	return err
}

// Unlike removes userID's like of postID, if any.
func (s *SocialService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.likeRepo.DeleteByUserAndPost(ctx, userID, postID)
}

// CommentOnPost adds a comment by userID to postID.
func (s *SocialService) CommentOnPost(ctx context.Context, userID, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewConstraintError(models.ConstraintRequired, "Comment.commentText is required", nil)
	}

	comment := &models.Comment{UserID: userID, PostID: postID, CommentText: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// SendMessage delivers a direct message from senderID to receiverID.
func (s *SocialService) SendMessage(ctx context.Context, senderID, receiverID uint, text string) (*models.DirectMessage, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}

	span, ctx := observability.NewSpan(ctx, "SocialService.SendMessage",
		attribute.Int64("sender.id", int64(senderID)),
		attribute.Int64("receiver.id", int64(receiverID)),
		attribute.Int("message.length", len(text)))

	message := &models.DirectMessage{SenderID: senderID, ReceiverID: receiverID, MessageText: text}
	err := s.messageRepo.Create(ctx, message)
	span.End(err)
	if err != nil {
		return nil, err
	}
	return message, nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (s *SocialService) Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.DirectMessage, error) {
	return s.messageRepo.Conversation(ctx, userA, userB, limit, offset)
}
