package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inkwell/models"
)

// Initialize opens a gorm connection for the configured driver. TranslateError
// is enabled so constraint violations and missing rows surface uniformly as
// gorm.ErrDuplicatedKey / gorm.ErrRecordNotFound across drivers.
func Initialize(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql", "":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema, including the unique indexes on users.username,
// users.email, groups.slug and follows(user_id, author_id).
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DeleteUser removes a user together with their posts, the comments on those
// posts, their own comments, and every follow edge touching them. All of it
// runs in one transaction.
func DeleteUser(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}

// DeleteGroup removes a group; posts in it survive with their group reference
// cleared.
func DeleteGroup(db *gorm.DB, groupID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", groupID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}

// DeletePost removes a post and its comments.
func DeletePost(db *gorm.DB, postID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// SeedData populates the database with sample content for development
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	users := []models.User{
		{
			ID:       "user-1",
			Username: "leo",
			Name:     "Leo Writer",
			Email:    "leo@example.com",
			Password: "$2a$10$dummy", // replaced by a real hash on signup
		},
		{
			ID:       "user-2",
			Username: "marta",
			Name:     "Marta Reader",
			Email:    "marta@example.com",
			Password: "$2a$10$dummy",
		},
	}
	for _, user := range users {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create sample user %s: %v\n", user.Username, err)
		}
	}

	group := models.Group{
		Title:       "Travel notes",
		Slug:        "travel",
		Description: "Trips, places and the roads between them",
	}
	if err := db.Create(&group).Error; err != nil {
		fmt.Printf("Warning: Could not create sample group: %v\n", err)
	}

	posts := []models.Post{
		{Text: "First week on the road. The coastline south of the city is worth every detour.", AuthorID: "user-1", GroupID: &group.ID},
		{Text: "Notes on packing light: you need half of what you think you need.", AuthorID: "user-1"},
	}
	for _, post := range posts {
		if err := db.Create(&post).Error; err != nil {
			fmt.Printf("Warning: Could not create sample post: %v\n", err)
		}
	}

	fmt.Println("Database seeded with sample data")
	return nil
}
