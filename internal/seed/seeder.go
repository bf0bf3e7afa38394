package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/models"
	"github.com/socio-africa/backend/internal/util"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedTopics = []string{
	"Technology", "Football", "Music", "Politics", "Business",
	"Health", "Travel", "Food", "Fashion", "Education",
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev fills the development database with realistic data
func (s *Seeder) SeedDev() error {
	logger.Info("Creating topics...")
	if err := s.seedTopics(); err != nil {
		return fmt.Errorf("failed to seed topics: %w", err)
	}

	logger.Info("Creating users...")
	users, err := s.seedUsers(50)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Info("Creating follows...")
	if err := s.seedFollows(users, 200); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Info("Creating communities...")
	communities, err := s.seedCommunities(users, 8)
	if err != nil {
		return fmt.Errorf("failed to seed communities: %w", err)
	}

	logger.Info("Creating posts...")
	posts, err := s.seedPosts(users, communities, 300)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Info("Creating shares...")
	if err := s.seedShares(users, posts, 60); err != nil {
		return fmt.Errorf("failed to seed shares: %w", err)
	}

	logger.Info("Creating comments...")
	if err := s.seedComments(users, posts, 600); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Info("Creating reactions and bookmarks...")
	if err := s.seedReactionsAndBookmarks(users, posts); err != nil {
		return fmt.Errorf("failed to seed reactions: %w", err)
	}

	logger.Info("Seeding complete")
	return nil
}

// SeedTest creates a tiny fixed dataset for smoke testing
func (s *Seeder) SeedTest() error {
	if err := s.seedTopics(); err != nil {
		return err
	}
	users, err := s.seedUsers(5)
	if err != nil {
		return err
	}
	_, err = s.seedPosts(users, nil, 10)
	return err
}

// Clean removes all seeded data
func (s *Seeder) Clean() error {
	tables := []string{
		"notifications", "bookmarks", "comments", "posts",
		"community_members", "communities", "follows", "topics", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedTopics() error {
	for _, name := range seedTopics {
		topic := models.Topic{Name: name, TopicRef: util.Slugify(name)}
		if err := s.db.Where("topic_ref = ?", topic.TopicRef).FirstOrCreate(&topic).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		topics := make([]string, 0, 3)
		for _, idx := range rand.Perm(len(seedTopics))[:rand.Intn(4)] {
			topics = append(topics, seedTopics[idx])
		}

		user := models.User{
			Email:        fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			PasswordHash: &hashStr,
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
			Gender:       gofakeit.Gender(),
			Bio:          gofakeit.Sentence(10),
			Topics:       topics,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedFollows(users []models.User, count int) error {
	for i := 0; i < count; i++ {
		follower := users[rand.Intn(len(users))]
		following := users[rand.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}
		follow := models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
		// Ignore duplicate pairs
		s.db.Where("follower_id = ? AND following_id = ?", follow.FollowerID, follow.FollowingID).
			FirstOrCreate(&follow)
	}
	return nil
}

func (s *Seeder) seedCommunities(users []models.User, count int) ([]models.Community, error) {
	communities := make([]models.Community, 0, count)
	for i := 0; i < count; i++ {
		creator := users[rand.Intn(len(users))]
		community := models.Community{
			Name:        fmt.Sprintf("%s %s %d", gofakeit.Adjective(), gofakeit.NounAbstract(), i),
			Description: gofakeit.Sentence(15),
			CreatedBy:   creator.ID,
			Topics:      []string{seedTopics[rand.Intn(len(seedTopics))]},
		}
		if err := s.db.Create(&community).Error; err != nil {
			return nil, err
		}

		member := models.CommunityMember{
			CommunityID: community.ID,
			UserID:      creator.ID,
			Role:        models.RoleSuperAdmin,
		}
		if err := s.db.Create(&member).Error; err != nil {
			return nil, err
		}

		// A handful of regular members each
		for _, idx := range rand.Perm(len(users))[:5] {
			if users[idx].ID == creator.ID {
				continue
			}
			s.db.Create(&models.CommunityMember{
				CommunityID: community.ID,
				UserID:      users[idx].ID,
				Role:        models.RoleMember,
			})
		}

		communities = append(communities, community)
	}
	return communities, nil
}

func (s *Seeder) seedPosts(users []models.User, communities []models.Community, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			UserID:  author.ID,
			Content: gofakeit.Paragraph(1, 3, 12, " "),
			Topic:   seedTopics[rand.Intn(len(seedTopics))],
		}

		// Roughly one in five posts goes into a community
		if len(communities) > 0 && rand.Intn(5) == 0 {
			community := communities[rand.Intn(len(communities))]
			post.Visibility = models.Visibility{
				Mode:        models.VisibilityCommunity,
				CommunityID: community.ID,
			}
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedShares(users []models.User, posts []models.Post, count int) error {
	for i := 0; i < count; i++ {
		sharer := users[rand.Intn(len(users))]
		source := posts[rand.Intn(len(posts))]
		if source.UserID == sharer.ID {
			continue
		}

		var existing int64
		s.db.Model(&models.Post{}).
			Where("parent_post_id = ? AND shared_by = ?", source.ID, sharer.ID).
			Count(&existing)
		if existing > 0 {
			continue
		}

		share := models.Post{
			UserID:       sharer.ID,
			ParentPostID: &source.ID,
			SharedBy:     &sharer.ID,
			Topic:        source.Topic,
			Visibility:   source.Visibility,
		}
		if err := s.db.Create(&share).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedComments(users []models.User, posts []models.Post, count int) error {
	parents := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]

		comment := models.Comment{
			PostID:  post.ID,
			UserID:  author.ID,
			Content: gofakeit.Sentence(12),
		}

		// A third of comments are replies to earlier ones
		if len(parents) > 0 && rand.Intn(3) == 0 {
			parent := parents[rand.Intn(len(parents))]
			comment.PostID = parent.PostID
			comment.ParentCommentID = &parent.ID
			comment.ReplyTo = &parent.UserID
		}

		if err := s.db.Create(&comment).Error; err != nil {
			return err
		}
		if comment.ParentCommentID == nil {
			parents = append(parents, comment)
		}
	}
	return nil
}

func (s *Seeder) seedReactionsAndBookmarks(users []models.User, posts []models.Post) error {
	for i := range posts {
		reactions := models.ReactionList{}
		for _, idx := range rand.Perm(len(users))[:rand.Intn(8)] {
			kind := models.ReactionLike
			if rand.Intn(4) == 0 {
				kind = models.ReactionDislike
			}
			reactions = append(reactions, models.Reaction{UserID: users[idx].ID, Kind: kind})
		}
		if len(reactions) > 0 {
			if err := s.db.Model(&models.Post{}).
				Where("id = ?", posts[i].ID).
				Update("reactions", reactions).Error; err != nil {
				return err
			}
		}

		for _, idx := range rand.Perm(len(users))[:rand.Intn(3)] {
			s.db.Create(&models.Bookmark{UserID: users[idx].ID, PostID: &posts[i].ID})
		}
	}
	return nil
}
