package repository

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

type commentLink struct {
	ID        uint
	ReplyToID *uint
}

// commentTreeLevels returns every comment reachable from rootIDs through
// replies, grouped by depth so that deleting the last level first never
// orphans a reply.
func commentTreeLevels(tx *gorm.DB, rootIDs []uint) ([][]uint, error) {
	seen := make(map[uint]struct{})
	frontier := make([]uint, 0, len(rootIDs))
	for _, id := range rootIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&models.Comment{}).
			Where("reply_to_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		next := frontier[:0:0]
		for _, id := range children {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				next = append(next, id)
			}
		}
		frontier = next
	}

	if len(seen) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	var links []commentLink
	if err := tx.Model(&models.Comment{}).
		Select("id, reply_to_id").
		Where("id IN ?", ids).
		Scan(&links).Error; err != nil {
		return nil, err
	}

	children := make(map[uint][]uint, len(links))
	var level []uint
	for _, l := range links {
		if l.ReplyToID != nil {
			if _, inSet := seen[*l.ReplyToID]; inSet {
				children[*l.ReplyToID] = append(children[*l.ReplyToID], l.ID)
				continue
			}
		}
		level = append(level, l.ID)
	}

	var levels [][]uint
	for len(level) > 0 {
		levels = append(levels, level)
		var next []uint
		for _, id := range level {
			next = append(next, children[id]...)
		}
		level = next
	}
	return levels, nil
}

// deleteCommentTrees removes the given comments and all of their replies,
// deepest replies first.
func deleteCommentTrees(tx *gorm.DB, rootIDs []uint) (int64, error) {
	if len(rootIDs) == 0 {
		return 0, nil
	}
	levels, err := commentTreeLevels(tx, rootIDs)
	if err != nil {
		return 0, err
	}
	var deleted int64
	for i := len(levels) - 1; i >= 0; i-- {
		res := tx.Where("id IN ?", levels[i]).Delete(&models.Comment{})
		if res.Error != nil {
			return deleted, res.Error
		}
		deleted += res.RowsAffected
	}
	return deleted, nil
}

// deletePostsCascade removes posts together with their likes, bookmarks and
// comment threads.
func deletePostsCascade(tx *gorm.DB, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}

	var roots []uint
	if err := tx.Model(&models.Comment{}).
		Where("post_id IN ? AND reply_to_id IS NULL", postIDs).
		Pluck("id", &roots).Error; err != nil {
		return err
	}
	if _, err := deleteCommentTrees(tx, roots); err != nil {
		return err
	}

	// Replies whose parent chain never reaches a top-level comment on these posts.
	var stragglers []uint
	if err := tx.Model(&models.Comment{}).
		Where("post_id IN ?", postIDs).
		Pluck("id", &stragglers).Error; err != nil {
		return err
	}
	if _, err := deleteCommentTrees(tx, stragglers); err != nil {
		return err
	}

	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Bookmark{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error
}

// deleteUserCascade removes a user and everything that references them.
func deleteUserCascade(tx *gorm.DB, userID uint) error {
	var commentIDs []uint
	if err := tx.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if _, err := deleteCommentTrees(tx, commentIDs); err != nil {
		return err
	}

	var postIDs []uint
	if err := tx.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	if err := deletePostsCascade(tx, postIDs); err != nil {
		return err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Bookmark{}).Error; err != nil {
		return err
	}

	var profileIDs []uint
	if err := tx.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Pluck("id", &profileIDs).Error; err != nil {
		return err
	}
	followQuery := tx.Where("user_id = ?", userID)
	if len(profileIDs) > 0 {
		followQuery = tx.Where("user_id = ? OR profile_id IN ?", userID, profileIDs)
	}
	if err := followQuery.Delete(&models.Follow{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.User{}, userID).Error
}
