package pictures

import (
	"fmt"
	"testing"

	"github.com/photogur/photogur/database/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Picture{}, &models.Comment{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash"}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func seedPicture(t *testing.T, repo *Repository, userID uint, title, artist string) *models.Picture {
	t.Helper()
	picture := &models.Picture{
		Title:       title,
		Artist:      artist,
		Identifier:  fmt.Sprintf("id-%s", title),
		StoragePath: fmt.Sprintf("original/2026/01/01/%s.png", title),
		MimeType:    "image/png",
		UserID:      userID,
	}
	assert.NoError(t, repo.Create(picture))
	return picture
}

// --- 测试 图片仓库 ---

func TestListAllOrdersByNewest(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, "alice")

	seedPicture(t, repo, user.ID, "first", "a")
	seedPicture(t, repo, user.ID, "second", "b")
	seedPicture(t, repo, user.ID, "third", "c")

	pictures, err := repo.ListAll()
	assert.NoError(t, err)
	assert.Len(t, pictures, 3)
	// 最新的排在最前
	assert.Equal(t, "third", pictures[0].Title)
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetByIdentifier(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, "alice")
	seeded := seedPicture(t, repo, user.ID, "sunset", "monet")

	picture, err := repo.GetByIdentifier(seeded.Identifier)
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, picture.ID)
	assert.Equal(t, "sunset", picture.Title)
}

func TestGetByIDAndUserEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	picture := seedPicture(t, repo, alice.ID, "mine", "alice")

	// 所有者查询成功
	got, err := repo.GetByIDAndUser(picture.ID, alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, picture.ID, got.ID)

	// 他人的查询与不存在的记录表现一致
	_, err = repo.GetByIDAndUser(picture.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchMatchesTitleOrArtist(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, "alice")

	seedPicture(t, repo, user.ID, "Golden Gate", "Ansel Adams")
	seedPicture(t, repo, user.ID, "Moonrise", "Ansel Adams")
	seedPicture(t, repo, user.ID, "Starry Night", "Van Gogh")

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"matches title", "golden", 1},
		{"matches artist", "ansel", 2},
		{"case insensitive", "VAN GOGH", 1},
		{"substring", "night", 1},
		{"no match", "picasso", 0},
		{"empty matches all", "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := repo.Search(tt.query)
			assert.NoError(t, err)
			assert.Len(t, results, tt.want)
		})
	}
}

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, "alice")
	picture := seedPicture(t, repo, user.ID, "before", "old artist")

	picture.Title = "after"
	picture.Artist = "new artist"
	assert.NoError(t, repo.Update(picture))

	got, err := repo.GetByID(picture.ID)
	assert.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "new artist", got.Artist)
}

func TestCountByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedPicture(t, repo, alice.ID, "one", "a")
	seedPicture(t, repo, alice.ID, "two", "a")

	count, err := repo.CountByUser(alice.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByUser(bob.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
