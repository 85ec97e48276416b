package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/database"
	"inkwell/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared in-memory database keeps every pooled connection on the
	// same data.
	db, err := database.Initialize("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		ID:       "user-" + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, author models.User, text string, groupID *uint, pubDate time.Time) models.Post {
	t.Helper()
	post := models.Post{
		Text:     text,
		AuthorID: author.ID,
		GroupID:  groupID,
		PubDate:  pubDate,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestParsePageNumber(t *testing.T) {
	assert.Equal(t, 1, ParsePageNumber(""))
	assert.Equal(t, 1, ParsePageNumber("abc"))
	assert.Equal(t, 1, ParsePageNumber("0"))
	assert.Equal(t, 1, ParsePageNumber("-3"))
	assert.Equal(t, 2, ParsePageNumber("2"))
}

func TestAllSplitsThirteenPosts(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "leo")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		createPost(t, db, author, fmt.Sprintf("post %d", i), nil, base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewService(db)

	first, err := svc.All(1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, int64(13), first.Total)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	second, err := svc.All(2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.True(t, second.HasPrev)
	assert.False(t, second.HasNext)
}

func TestAllOrdersNewestFirst(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "leo")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, db, author, "oldest", nil, base)
	createPost(t, db, author, "newest", nil, base.Add(2*time.Hour))
	createPost(t, db, author, "middle", nil, base.Add(time.Hour))

	page, err := NewService(db).All(1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	assert.Equal(t, "newest", page.Posts[0].Text)
	assert.Equal(t, "middle", page.Posts[1].Text)
	assert.Equal(t, "oldest", page.Posts[2].Text)
	assert.Equal(t, "leo", page.Posts[0].Author.Username)
}

func TestAllClampsOutOfRangePages(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "leo")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		createPost(t, db, author, fmt.Sprintf("post %d", i), nil, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := NewService(db).All(99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Len(t, page.Posts, 3)
}

func TestAllEmptyFeedHasSinglePage(t *testing.T) {
	db := newTestDB(t)

	page, err := NewService(db).All(1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestByGroup(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "leo")
	group := models.Group{Title: "Travel", Slug: "travel"}
	require.NoError(t, db.Create(&group).Error)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, db, author, "in group", &group.ID, base)
	createPost(t, db, author, "outside", nil, base.Add(time.Minute))

	got, page, err := NewService(db).ByGroup("travel", 1)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "in group", page.Posts[0].Text)
}

func TestByGroupUnknownSlug(t *testing.T) {
	db := newTestDB(t)

	_, _, err := NewService(db).ByGroup("missing", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestByAuthor(t *testing.T) {
	db := newTestDB(t)
	leo := createUser(t, db, "leo")
	marta := createUser(t, db, "marta")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, db, leo, "leo 1", nil, base)
	createPost(t, db, leo, "leo 2", nil, base.Add(time.Minute))
	createPost(t, db, marta, "marta 1", nil, base.Add(2*time.Minute))

	author, page, err := NewService(db).ByAuthor("leo", 1)
	require.NoError(t, err)
	assert.Equal(t, leo.ID, author.ID)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "leo 2", page.Posts[0].Text)
}

func TestByAuthorUnknownUsername(t *testing.T) {
	db := newTestDB(t)

	_, _, err := NewService(db).ByAuthor("nobody", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFollowingFiltersByFollowedAuthors(t *testing.T) {
	db := newTestDB(t)
	reader := createUser(t, db, "reader")
	followed := createUser(t, db, "followed")
	other := createUser(t, db, "other")
	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: followed.ID}).Error)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createPost(t, db, followed, "from followed", nil, base)
	createPost(t, db, other, "from other", nil, base.Add(time.Minute))

	page, err := NewService(db).Following(reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "from followed", page.Posts[0].Text)
}

func TestFollowingNobodyIsEmptyNotError(t *testing.T) {
	db := newTestDB(t)
	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")
	createPost(t, db, author, "unseen", nil, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	page, err := NewService(db).Following(reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, int64(0), page.Total)
}
