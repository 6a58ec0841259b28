package seed

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Summary counts what a run created.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Likes     int
	Follows   int
	Bookmarks int
}

// Seeder drives the services with generated data.
type Seeder struct {
	db         *gorm.DB
	log        *slog.Logger
	users      *service.UserService
	posts      *service.PostService
	comments   *service.CommentService
	engagement *service.EngagementService
}

// NewSeeder wires repositories and services over db. Passwords are hashed
// with the minimum bcrypt cost to keep large runs fast.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)

	return &Seeder{
		db:    db,
		log:   logger,
		users: service.NewUserService(userRepo).WithBcryptCost(bcrypt.MinCost),
		posts: service.NewPostService(postRepo, userRepo, followRepo,
			repository.NewLeaderboardRepository(db), 0),
		comments: service.NewCommentService(repository.NewCommentRepository(db), postRepo),
		engagement: service.NewEngagementService(
			repository.NewLikeRepository(db),
			followRepo,
			repository.NewBookmarkRepository(db),
			userRepo,
			postRepo,
		),
	}
}

// Clear deletes every row of every persistent model, children first.
func (s *Seeder) Clear(ctx context.Context) error {
	s.log.InfoContext(ctx, "clearing existing data")
	tables := database.PersistentModels()
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(tables) - 1; i >= 0; i-- {
		if err := tx.Delete(tables[i]).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", tables[i], err)
		}
	}
	return nil
}

// Run creates the users, posts, comments and engagement described by plan.
func (s *Seeder) Run(ctx context.Context, plan Plan) (*Summary, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	f := NewFactory(plan.RandomSeed)
	sum := &Summary{}

	users, err := s.seedUsers(ctx, f, plan)
	if err != nil {
		return sum, err
	}
	sum.Users = len(users)
	s.log.InfoContext(ctx, "users created", "count", sum.Users)

	var posts []*models.Post
	for _, u := range users {
		for i := 0; i < plan.PostsPerUser; i++ {
			p, err := s.posts.CreatePost(ctx, f.Post(u.ID))
			if err != nil {
				return sum, fmt.Errorf("failed to create post: %w", err)
			}
			posts = append(posts, p)
		}
	}
	sum.Posts = len(posts)
	s.log.InfoContext(ctx, "posts created", "count", sum.Posts)

	if len(users) > 0 {
		if sum.Comments, err = s.seedComments(ctx, f, plan, users, posts); err != nil {
			return sum, err
		}
		s.log.InfoContext(ctx, "comments created", "count", sum.Comments)
	}

	for _, u := range users {
		for _, p := range posts {
			if p.UserID == u.ID {
				continue
			}
			if f.Chance(plan.LikeChance) {
				if _, err := s.engagement.ToggleLike(ctx, u.ID, p.ID); err != nil {
					return sum, fmt.Errorf("failed to like post: %w", err)
				}
				sum.Likes++
			}
			if f.Chance(plan.BookmarkChance) {
				if _, err := s.engagement.ToggleBookmark(ctx, u.ID, p.ID); err != nil {
					return sum, fmt.Errorf("failed to bookmark post: %w", err)
				}
				sum.Bookmarks++
			}
		}
		for _, other := range users {
			if other.ID == u.ID || !f.Chance(plan.FollowChance) {
				continue
			}
			if _, err := s.engagement.ToggleFollow(ctx, u.ID, other.Profile.ID); err != nil {
				return sum, fmt.Errorf("failed to follow profile: %w", err)
			}
			sum.Follows++
		}
	}
	s.log.InfoContext(ctx, "engagement created",
		"likes", sum.Likes, "follows", sum.Follows, "bookmarks", sum.Bookmarks)

	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context, f *Factory, plan Plan) ([]*models.User, error) {
	users := make([]*models.User, 0, len(plan.Accounts)+plan.Users)

	register := func(in service.RegisterInput, bio string) error {
		u, err := s.users.Register(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", in.Username, err)
		}
		if bio != "" {
			if _, err := s.users.UpdateProfile(ctx, service.UpdateProfileInput{UserID: u.ID, Bio: &bio}); err != nil {
				return fmt.Errorf("failed to set bio for %s: %w", in.Username, err)
			}
		}
		users = append(users, u)
		return nil
	}

	for _, a := range plan.Accounts {
		in := f.Register(a.Username, plan.Password)
		if a.Email != "" {
			in.Email = a.Email
		}
		if err := register(in, a.Bio); err != nil {
			return nil, err
		}
	}
	for i := 0; i < plan.Users; i++ {
		if err := register(f.Register(f.Username(), plan.Password), f.Bio()); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Seeder) seedComments(ctx context.Context, f *Factory, plan Plan, users []*models.User, posts []*models.Post) (int, error) {
	n := 0
	for _, p := range posts {
		var thread []*models.Comment
		for i := 0; i < plan.CommentsPerPost; i++ {
			in := service.CreateCommentInput{
				UserID:  users[f.Pick(len(users))].ID,
				PostID:  p.ID,
				Content: f.Comment(),
			}
			if len(thread) > 0 && f.Chance(plan.ReplyChance) {
				parent := thread[f.Pick(len(thread))]
				in.ParentID = &parent.ID
			}
			c, err := s.comments.PostComment(ctx, in)
			if err != nil {
				return n, fmt.Errorf("failed to create comment: %w", err)
			}
			thread = append(thread, c)
			n++
		}
	}
	return n, nil
}
