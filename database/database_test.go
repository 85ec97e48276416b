package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared in-memory database keeps every pooled connection on the
	// same data.
	db, err := Initialize("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
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

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize("oracle", "dsn")
	assert.Error(t, err)
}

func TestGroupSlugUnique(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.Group{Title: "Travel", Slug: "travel"}).Error)
	err := db.Create(&models.Group{Title: "Other travel", Slug: "travel"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFollowPairUnique(t *testing.T) {
	db := newTestDB(t)
	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)

	err := db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The same pair in the other direction is a different edge.
	require.NoError(t, db.Create(&models.Follow{UserID: author.ID, AuthorID: reader.ID}).Error)
}

func TestFollowConflictTolerantInsert(t *testing.T) {
	db := newTestDB(t)
	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	for i := 0; i < 2; i++ {
		follow := models.Follow{UserID: reader.ID, AuthorID: author.ID}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
		require.NoError(t, err)
	}

	var count int64
	db.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", reader.ID, author.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	victim := createUser(t, db, "victim")
	other := createUser(t, db, "other")

	victimPost := models.Post{Text: "mine", AuthorID: victim.ID}
	require.NoError(t, db.Create(&victimPost).Error)
	otherPost := models.Post{Text: "not mine", AuthorID: other.ID}
	require.NoError(t, db.Create(&otherPost).Error)

	// Comment by the victim on the other user's post, comment by the other
	// user on the victim's post.
	require.NoError(t, db.Create(&models.Comment{PostID: otherPost.ID, AuthorID: victim.ID, Text: "hi"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: victimPost.ID, AuthorID: other.ID, Text: "hello"}).Error)

	require.NoError(t, db.Create(&models.Follow{UserID: victim.ID, AuthorID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{UserID: other.ID, AuthorID: victim.ID}).Error)

	require.NoError(t, DeleteUser(db, victim.ID))

	var users, posts, comments, follows int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Follow{}).Count(&follows)

	assert.Equal(t, int64(1), users, "only the other user remains")
	assert.Equal(t, int64(1), posts, "the victim's post is gone")
	assert.Equal(t, int64(0), comments, "the victim's comments and comments on their posts are gone")
	assert.Equal(t, int64(0), follows, "edges touching the victim are gone")

	var survivor models.Post
	require.NoError(t, db.First(&survivor, otherPost.ID).Error)
	assert.Equal(t, "not mine", survivor.Text)
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author")

	group := models.Group{Title: "Travel", Slug: "travel"}
	require.NoError(t, db.Create(&group).Error)
	post := models.Post{Text: "grouped", AuthorID: author.ID, GroupID: &group.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, DeleteGroup(db, group.ID))

	assert.ErrorIs(t, db.First(&models.Group{}, group.ID).Error, gorm.ErrRecordNotFound)

	var kept models.Post
	require.NoError(t, db.First(&kept, post.ID).Error)
	assert.Nil(t, kept.GroupID)
	assert.Equal(t, "grouped", kept.Text)
}

func TestDeletePostCascadesComments(t *testing.T) {
	db := newTestDB(t)
	author := createUser(t, db, "author")

	post := models.Post{Text: "with comments", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}).Error)

	require.NoError(t, DeletePost(db, post.ID))

	var comments int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
	assert.Equal(t, int64(0), comments)
	assert.ErrorIs(t, db.First(&models.Post{}, post.ID).Error, gorm.ErrRecordNotFound)
}
