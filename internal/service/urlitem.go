package service

import (
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/lonedevel/jrnurl-project/internal/db"
)

type ItemParams struct {
	Title  string
	URL    string
	Visits int
	Tags   []string
}

// ItemList returns the user's items ordered by title. When collectionID is
// set only members of that collection are returned.
func (s *General) ItemList(user *db.User, collectionID *uuid.UUID) ([]db.URLItem, error) {
	if collectionID == nil {
		items := make([]db.URLItem, 0)
		res := s.db.Where("user_id = ?", user.ID).Order("title").Find(&items)
		if res.Error != nil {
			return nil, res.Error
		}
		return items, nil
	}

	sql, args, err := squirrel.
		Select("i.id", "i.title", "i.url", "i.visits", "i.tags", "i.user_id", "i.created_at", "i.updated_at").
		From("url_items i").
		Join("collection_memberships m ON i.id = m.item_id").
		Where(squirrel.Eq{
			"i.user_id":       user.ID,
			"m.collection_id": *collectionID,
		}).
		OrderBy("i.title").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	items := make([]db.URLItem, 0)
	res := s.db.Raw(sql, args...).Scan(&items)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}
	return items, nil
}

func (s *General) ItemCreate(user *db.User, p ItemParams) (*db.URLItem, error) {
	model := db.URLItem{
		Title:  p.Title,
		URL:    p.URL,
		Visits: p.Visits,
		Tags:   normalizeTags(p.Tags),
		UserID: user.ID,
	}

	res := s.db.Create(&model)
	if res.Error != nil {
		return nil, res.Error
	}
	return &model, nil
}

// itemGetOrCreate reuses an existing item when every field matches for this
// owner, otherwise inserts a new one. The check and the insert are separate
// statements; a concurrent identical create can produce two rows.
func (s *General) itemGetOrCreate(user *db.User, p ItemParams) (*db.URLItem, error) {
	q := s.db.Where("title = ? AND url = ? AND visits = ? AND user_id = ?",
		p.Title, p.URL, p.Visits, user.ID)
	if len(p.Tags) == 0 {
		q = q.Where("tags IS NULL")
	} else {
		q = q.Where("tags = ?", pq.StringArray(p.Tags))
	}

	existing := db.URLItem{}
	res := q.First(&existing)
	if res.Error == nil {
		return &existing, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(res.Error, "find item")
	}

	return s.ItemCreate(user, p)
}

// ItemDelete removes the user's item and every membership referencing it.
// Another user's id behaves like a nonexistent one.
func (s *General) ItemDelete(user *db.User, id uuid.UUID) error {
	item := db.URLItem{}
	res := s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&item)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return res.Error
	}

	res = s.db.Where("item_id = ?", item.ID).Delete(&db.CollectionMembership{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete memberships")
	}

	res = s.db.Delete(&item)
	if res.Error != nil {
		return res.Error
	}
	return nil
}
