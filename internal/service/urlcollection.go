package service

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/lonedevel/jrnurl-project/internal/db"
)

type (
	CollectionParams struct {
		Name           string
		Description    *string
		CollectionType int
		Favorite       *bool
		Tags           []string
		Items          []ItemParams
	}

	CollectionUpdateParams struct {
		Name           *string
		Description    *string
		CollectionType *int
		Favorite       *bool
		Tags           []string
	}

	CollectionWithItems struct {
		Collection db.URLCollection
		Items      []db.URLItem
	}

	memberRow struct {
		CollectionID uuid.UUID
		ID           uuid.UUID
		Title        string
		URL          string
		Visits       int
		Tags         pq.StringArray
		UserID       uuid.UUID
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

func (s *General) CollectionList(user *db.User) ([]CollectionWithItems, error) {
	collections := make([]db.URLCollection, 0)
	res := s.db.Where("user_id = ?", user.ID).Order("name").Find(&collections)
	if res.Error != nil {
		return nil, res.Error
	}

	ids := make([]uuid.UUID, len(collections))
	for i := range collections {
		ids[i] = collections[i].ID
	}
	members, err := s.membersFor(ids)
	if err != nil {
		return nil, err
	}

	out := make([]CollectionWithItems, len(collections))
	for i := range collections {
		out[i] = CollectionWithItems{
			Collection: collections[i],
			Items:      members[collections[i].ID],
		}
	}
	return out, nil
}

func (s *General) CollectionGet(user *db.User, id uuid.UUID) (*CollectionWithItems, error) {
	collection := db.URLCollection{}
	res := s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&collection)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, res.Error
	}

	members, err := s.membersFor([]uuid.UUID{collection.ID})
	if err != nil {
		return nil, err
	}
	return &CollectionWithItems{
		Collection: collection,
		Items:      members[collection.ID],
	}, nil
}

// CollectionCreate get-or-creates the collection, then get-or-creates and
// links each embedded item, recording the acting user on the membership row.
// There is no transaction around create plus linking; an interrupted call
// leaves the already-linked members in place.
func (s *General) CollectionCreate(user *db.User, p CollectionParams) (*CollectionWithItems, error) {
	collection, err := s.collectionGetOrCreate(user, p)
	if err != nil {
		return nil, err
	}

	for i := range p.Items {
		item, err := s.itemGetOrCreate(user, p.Items[i])
		if err != nil {
			return nil, errors.Wrap(err, "embedded item")
		}
		if err := s.linkMembership(user, collection.ID, item.ID); err != nil {
			return nil, errors.Wrap(err, "link item")
		}
	}

	members, err := s.membersFor([]uuid.UUID{collection.ID})
	if err != nil {
		return nil, err
	}
	return &CollectionWithItems{
		Collection: *collection,
		Items:      members[collection.ID],
	}, nil
}

func (s *General) CollectionUpdate(user *db.User, id uuid.UUID, p CollectionUpdateParams) (*CollectionWithItems, error) {
	collection := db.URLCollection{}
	res := s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&collection)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, res.Error
	}

	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.CollectionType != nil {
		updates["collection_type"] = *p.CollectionType
	}
	if p.Favorite != nil {
		updates["favorite"] = *p.Favorite
	}
	if p.Tags != nil {
		updates["tags"] = normalizeTags(p.Tags)
	}
	if len(updates) != 0 {
		res = s.db.Model(&collection).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "update collection")
		}

		res = s.db.First(&collection)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "get collection")
		}
	}

	members, err := s.membersFor([]uuid.UUID{collection.ID})
	if err != nil {
		return nil, err
	}
	return &CollectionWithItems{
		Collection: collection,
		Items:      members[collection.ID],
	}, nil
}

// CollectionDelete removes the collection and its memberships. Member items
// stay, as do any other collections they belong to.
func (s *General) CollectionDelete(user *db.User, id uuid.UUID) error {
	collection := db.URLCollection{}
	res := s.db.Where("id = ? AND user_id = ?", id, user.ID).First(&collection)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return res.Error
	}

	res = s.db.Where("collection_id = ?", collection.ID).Delete(&db.CollectionMembership{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete memberships")
	}

	res = s.db.Delete(&collection)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (s *General) collectionGetOrCreate(user *db.User, p CollectionParams) (*db.URLCollection, error) {
	q := s.db.Where("name = ? AND collection_type = ? AND user_id = ?",
		p.Name, p.CollectionType, user.ID)
	if p.Description == nil {
		q = q.Where("description IS NULL")
	} else {
		q = q.Where("description = ?", *p.Description)
	}
	if p.Favorite == nil {
		q = q.Where("favorite IS NULL")
	} else {
		q = q.Where("favorite = ?", *p.Favorite)
	}
	if len(p.Tags) == 0 {
		q = q.Where("tags IS NULL")
	} else {
		q = q.Where("tags = ?", pq.StringArray(p.Tags))
	}

	existing := db.URLCollection{}
	res := q.First(&existing)
	if res.Error == nil {
		return &existing, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(res.Error, "find collection")
	}

	model := db.URLCollection{
		Name:           p.Name,
		Description:    p.Description,
		CollectionType: p.CollectionType,
		Favorite:       p.Favorite,
		Tags:           normalizeTags(p.Tags),
		UserID:         user.ID,
	}
	res = s.db.Create(&model)
	if res.Error != nil {
		return nil, res.Error
	}
	return &model, nil
}

// linkMembership is idempotent for an existing (collection, item) pairing.
func (s *General) linkMembership(user *db.User, collectionID, itemID uuid.UUID) error {
	existing := db.CollectionMembership{}
	res := s.db.Where("collection_id = ? AND item_id = ?", collectionID, itemID).First(&existing)
	if res.Error == nil {
		return nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return errors.Wrap(res.Error, "find membership")
	}

	res = s.db.Create(&db.CollectionMembership{
		CollectionID: collectionID,
		ItemID:       itemID,
		UserID:       user.ID,
	})
	if res.Error != nil {
		return res.Error
	}
	return nil
}

// membersFor loads the member items for a set of collections in one query,
// grouped by collection, each group ordered by title.
func (s *General) membersFor(collectionIDs []uuid.UUID) (map[uuid.UUID][]db.URLItem, error) {
	out := make(map[uuid.UUID][]db.URLItem, len(collectionIDs))
	if len(collectionIDs) == 0 {
		return out, nil
	}

	sql, args, err := squirrel.
		Select("m.collection_id", "i.id", "i.title", "i.url", "i.visits", "i.tags", "i.user_id", "i.created_at", "i.updated_at").
		From("collection_memberships m").
		Join("url_items i ON i.id = m.item_id").
		Where(squirrel.Eq{"m.collection_id": collectionIDs}).
		OrderBy("i.title").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]memberRow, 0)
	res := s.db.Raw(sql, args...).Scan(&rows)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}

	for i := range rows {
		r := rows[i]
		out[r.CollectionID] = append(out[r.CollectionID], db.URLItem{
			UUIDModel: db.UUIDModel{
				ID:        r.ID,
				CreatedAt: r.CreatedAt,
				UpdatedAt: r.UpdatedAt,
			},
			Title:  r.Title,
			URL:    r.URL,
			Visits: r.Visits,
			Tags:   r.Tags,
			UserID: r.UserID,
		})
	}
	return out, nil
}
