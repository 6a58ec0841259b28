package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds valid service inputs from fake data.
type Factory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewFactory seeds the generator. A zero seed uses the clock.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return f.faker.Float64Range(0, 1) < p
}

// Pick returns a random index in [0, n).
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}

// Username returns a unique handle that passes username validation.
func (f *Factory) Username() string {
	f.seq++
	var b strings.Builder
	for _, r := range f.faker.Username() {
		if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	suffix := fmt.Sprintf("_%d", f.seq)
	if len(base)+len(suffix) > 30 {
		base = base[:30-len(suffix)]
	}
	return base + suffix
}

// Register builds a sign-up for username.
func (f *Factory) Register(username, password string) service.RegisterInput {
	return service.RegisterInput{
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		Password: password,
	}
}

// Bio returns a short profile bio.
func (f *Factory) Bio() string {
	return f.faker.Sentence(12)
}

// Post builds a post whose title and body satisfy the length rules.
func (f *Factory) Post(userID uint) service.CreatePostInput {
	title := truncate(strings.TrimSuffix(f.faker.Sentence(6), "."), models.PostTitleMaxLength)
	content := f.faker.Paragraph(2, 4, 12, "\n\n")
	for utf8.RuneCountInString(content) < models.PostContentMinLength {
		content += "\n\n" + f.faker.Paragraph(1, 4, 12, "")
	}
	return service.CreatePostInput{UserID: userID, Title: title, Content: content}
}

// Comment builds a comment body within the length cap.
func (f *Factory) Comment() string {
	return truncate(f.faker.Sentence(f.faker.Number(3, 20)), models.CommentMaxLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
