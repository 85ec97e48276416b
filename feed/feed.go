// Package feed builds the paginated post listings: global, per group,
// per author and "authors I follow".
package feed

import (
	"strconv"

	"gorm.io/gorm"

	"inkwell/models"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Page is one bounded slice of a feed, 1-indexed. An empty feed still has a
// single empty page.
type Page struct {
	Posts      []models.Post
	Number     int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ParsePageNumber turns a raw ?page= query value into a usable page number.
// Missing, non-numeric or sub-1 values fall back to page 1.
func ParsePageNumber(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// All returns a page of the global feed.
func (s *Service) All(page int) (*Page, error) {
	return s.paginate(func() *gorm.DB {
		return s.db.Model(&models.Post{})
	}, page)
}

// ByGroup returns the group resolved from slug and a page of its posts.
// Returns gorm.ErrRecordNotFound when the slug matches no group.
func (s *Service) ByGroup(slug string, page int) (*models.Group, *Page, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, nil, err
	}

	pg, err := s.paginate(func() *gorm.DB {
		return s.db.Model(&models.Post{}).Where("group_id = ?", group.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return &group, pg, nil
}

// ByAuthor returns the author resolved from username and a page of their
// posts; Page.Total carries the author's total post count. Returns
// gorm.ErrRecordNotFound when the username matches no user.
func (s *Service) ByAuthor(username string, page int) (*models.User, *Page, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, nil, err
	}

	pg, err := s.paginate(func() *gorm.DB {
		return s.db.Model(&models.Post{}).Where("author_id = ?", author.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return &author, pg, nil
}

// Following returns a page of posts by the authors userID follows. Following
// nobody yields an empty page, not an error.
func (s *Service) Following(userID string, page int) (*Page, error) {
	return s.paginate(func() *gorm.DB {
		followed := s.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
		return s.db.Model(&models.Post{}).Where("author_id IN (?)", followed)
	}, page)
}

// paginate applies the shared ordering and paging contract: newest first by
// publication time (equal timestamps keep insertion order), out-of-range page
// numbers clamp to the last page.
func (s *Service) paginate(base func() *gorm.DB, page int) (*Page, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var posts []models.Post
	err := base().
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id ASC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &Page{
		Posts:      posts,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}, nil
}
