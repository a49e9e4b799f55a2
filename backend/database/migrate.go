package database

import (
	"fmt"

	"quizlearn/backend/models"
)

// Order indexes are unique within a sibling group. NULL parents never
// collide in a plain unique index, so top-level lessons get their own.
var lessonOrderIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lessons_top_order
		ON lessons (topic_id, order_index) WHERE parent_lesson_id IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lessons_child_order
		ON lessons (topic_id, parent_lesson_id, order_index) WHERE parent_lesson_id IS NOT NULL`,
}

// Migrate creates or updates every table the service uses.
func (c *Client) Migrate() error {
	c.log.Info("Running migrations")
	err := c.db.AutoMigrate(
		&models.User{},
		&models.RoleGrant{},
		&models.Topic{},
		&models.UserTopic{},
		&models.Lesson{},
		&models.LessonProgress{},
		&models.Question{},
		&models.AnswerRecord{},
		&models.ChatMessage{},
	)
	if err != nil {
		c.log.Error("Migration failed", "error", err)
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range lessonOrderIndexes {
		if err := c.db.Exec(stmt).Error; err != nil {
			c.log.Error("Creating lesson order index failed", "error", err)
			return fmt.Errorf("lesson order index: %w", err)
		}
	}
	return nil
}
