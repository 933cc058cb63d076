package seed

import (
	"fmt"
	"log"

	"pictora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls how much data the seeder creates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with a connected demo dataset: users,
// posts, follows, likes, saves, comments, and the notifications those
// interactions would have produced.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll wipes every seeded table. Child tables go first so foreign keys
// never dangle mid-wipe.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Notification{},
		&models.Comment{},
		&models.Like{},
		&models.SavedPost{},
		&models.Follow{},
		&models.PostImage{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// Run creates the demo dataset.
func (s *Seeder) Run(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 60
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		var user *models.User
		var err error
		if i == 0 {
			// stable demo login, promoted to admin
			user, err = s.factory.CreateUser(func(u *models.User) {
				u.FullName = "Demo Admin"
				u.Username = "demo_admin"
				u.Email = "admin@pictora.local"
				u.IsAdmin = true
			})
		} else {
			user, err = s.factory.CreateUser()
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (password %q)", len(users), DemoPassword)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}
	// a couple of ownerless legacy posts
	for i := 0; i < 2; i++ {
		post, err := s.factory.CreatePost(nil)
		if err != nil {
			return fmt.Errorf("failed to create legacy post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("Seeded %d posts", len(posts))

	if err := s.seedFollows(users); err != nil {
		return err
	}
	if err := s.seedInteractions(users, posts); err != nil {
		return err
	}
	return nil
}

func (s *Seeder) seedFollows(users []*models.User) error {
	created := 0
	for _, follower := range users {
		for i := 0; i < 3; i++ {
			target := users[s.factory.rng.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Follow{
				FollowerID:  follower.ID,
				FollowingID: target.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("failed to create follow: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			created++
			if err := s.notify(target.ID, &follower.ID, nil, models.NotificationFollow,
				fmt.Sprintf("%s started following you", follower.FullName)); err != nil {
				return err
			}
		}
	}
	log.Printf("Seeded %d follows", created)
	return nil
}

func (s *Seeder) seedInteractions(users []*models.User, posts []*models.Post) error {
	likes, saves, comments := 0, 0, 0
	for _, post := range posts {
		for i := 0; i < s.factory.rng.Intn(5); i++ {
			actor := users[s.factory.rng.Intn(len(users))]
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{
				PostID: post.ID,
				UserID: actor.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("failed to create like: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			likes++
			if post.UserID != nil && *post.UserID != actor.ID {
				if err := s.notify(*post.UserID, &actor.ID, &post.ID, models.NotificationLike,
					fmt.Sprintf("%s liked your post", actor.FullName)); err != nil {
					return err
				}
			}
		}

		for i := 0; i < s.factory.rng.Intn(3); i++ {
			actor := users[s.factory.rng.Intn(len(users))]
			res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SavedPost{
				PostID: post.ID,
				UserID: actor.ID,
			})
			if res.Error != nil {
				return fmt.Errorf("failed to create save: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				saves++
			}
		}

		for i := 0; i < s.factory.rng.Intn(4); i++ {
			actor := users[s.factory.rng.Intn(len(users))]
			comment, err := s.factory.CreateComment(post, actor)
			if err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
			if post.UserID != nil && *post.UserID != actor.ID {
				preview := []rune(comment.Text)
				text := comment.Text
				if len(preview) > 30 {
					text = string(preview[:30]) + "..."
				}
				if err := s.notify(*post.UserID, &actor.ID, &post.ID, models.NotificationComment,
					fmt.Sprintf("%s commented: \"%s\"", actor.FullName, text)); err != nil {
					return err
				}
			}
		}
	}
	log.Printf("Seeded %d likes, %d saves, %d comments", likes, saves, comments)
	return nil
}

func (s *Seeder) notify(userID uint, actorID, postID *uint, kind, message string) error {
	err := s.db.Create(&models.Notification{
		UserID:  userID,
		ActorID: actorID,
		PostID:  postID,
		Kind:    kind,
		Message: message,
		IsRead:  s.factory.rng.Intn(2) == 0,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
