// Package seed creates demo data for development environments.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pictora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account logs in with.
const DemoPassword = "password123"

// Factory builds domain entities and persists them. Development and demo
// use only.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a sample user. Overrides may adjust the generated
// user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	name := gofakeit.Name()
	user := &models.User{
		FullName: name,
		Username: usernameFrom(name, f.rng),
		Email:    strings.ToLower(gofakeit.Email()),
		Password: string(hash),
		Bio:      gofakeit.Sentence(8),
		Website:  gofakeit.URL(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post with 1-3 placeholder images and a created_at
// spread over the last 90 days.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	imageCount := 1 + f.rng.Intn(3)
	images := make([]models.PostImage, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		images = append(images, models.PostImage{
			ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			SortOrder: i,
		})
	}

	post := &models.Post{
		Caption:   gofakeit.Sentence(6),
		Images:    images,
		CreatedAt: f.pastTime(90),
	}
	if author != nil {
		post.UserID = &author.ID
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the post.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		UserID:    author.ID,
		Text:      gofakeit.Sentence(4 + f.rng.Intn(8)),
		CreatedAt: f.pastTime(30),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) pastTime(maxDays int) time.Time {
	age := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-age)
}

// usernameFrom derives a valid lowercase username from a full name, with a
// numeric suffix to dodge collisions.
func usernameFrom(name string, rng *rand.Rand) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	cleaned := make([]rune, 0, len(base))
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) > 24 {
		cleaned = cleaned[:24]
	}
	return fmt.Sprintf("%s%03d", string(cleaned), rng.Intn(1000))
}
