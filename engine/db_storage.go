package engine

import (
	"errors"
	"fmt"
	"slices"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hbnb/models"
)

type DBOptions struct {
	// DropOnReload drops every table before recreating the schema. Disposable deployments only.
	DropOnReload bool
}

// DBStorage is the relational store. It keeps a session-scoped identity map so
// repeated reads hand out the same instance, the same contract as FileStorage.
// New and Delete only stage changes, Save commits them in one transaction.
type DBStorage struct {
	db      *gorm.DB
	opts    DBOptions
	objects cmap.ConcurrentMap[string, models.Entity] // identity map: committed rows read so far plus staged entities
	deleted cmap.ConcurrentMap[string, models.Entity] // staged deletions, cascades included
	log     *zap.Logger
}

// link is a row of an association table
type link struct {
	LeftID  string
	RightID string
}

func NewDBStorage(db *gorm.DB, opts DBOptions, log *zap.Logger) *DBStorage {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBStorage{
		db:      db,
		opts:    opts,
		objects: cmap.New[models.Entity](),
		deleted: cmap.New[models.Entity](),
		log:     log.Named("db"),
	}
}

func (s *DBStorage) Reload() error {
	if s.opts.DropOnReload {
		tables := models.Tables()
		slices.Reverse(tables)
		if err := s.db.Migrator().DropTable(tables...); err != nil {
			return backendError("db", "drop schema", err)
		}
		s.log.Warn("Dropped schema")
	}
	if err := s.db.AutoMigrate(models.Tables()...); err != nil {
		return backendError("db", "migrate schema", err)
	}
	s.objects.Clear()
	s.deleted.Clear()
	s.log.Info("Session reloaded")
	return nil
}

func (s *DBStorage) All(kinds ...models.Kind) (map[string]models.Entity, error) {
	result := make(map[string]models.Entity)
	for _, k := range selectedKinds(kinds) {
		rows, err := s.query(k, "")
		if err != nil {
			return nil, err
		}
		for _, e := range append(rows, s.tracked(k)...) {
			result[models.Key(e)] = e
		}
	}
	return result, nil
}

func (s *DBStorage) Get(kind models.Kind, id string) (models.Entity, error) {
	key := models.KeyOf(kind, id)
	if s.deleted.Has(key) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if e, ok := s.objects.Get(key); ok {
		return e, nil
	}
	rows, err := s.query(kind, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return rows[0], nil
}

func (s *DBStorage) Count(kinds ...models.Kind) (int, error) {
	all, err := s.All(kinds...)
	return len(all), err
}

// New registers e unless its key is tracked or already committed, in which case
// the tracked or committed instance stays. Registering a staged deletion cancels it.
func (s *DBStorage) New(e models.Entity) {
	if e == nil {
		return
	}
	ensureRecord(e)
	key := models.Key(e)
	if _, ok := s.deleted.Pop(key); ok {
		s.objects.SetIfAbsent(key, e)
		return
	}
	if s.objects.Has(key) {
		return
	}
	rows, err := s.query(e.Kind(), "id = ?", e.Base().ID)
	if err != nil {
		// Save reports the failure
		s.log.Warn("Lookup before register failed", zap.String("key", key), zap.Error(err))
	} else if len(rows) > 0 {
		return
	}
	s.objects.SetIfAbsent(key, e)
}

// Save deletes the staged removals (dependents first), upserts every tracked
// entity (owners first) and rewrites the association rows, all in one transaction
func (s *DBStorage) Save() error {
	deleted := s.deleted.Items()
	objects := s.objects.Items()
	kinds := models.Kinds()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := len(kinds) - 1; i >= 0; i-- {
			k := kinds[i]
			ids := idsOf(deleted, k)
			if len(ids) == 0 {
				continue
			}
			for _, as := range models.AssociationsOf(k) {
				column := as.LeftColumn
				if as.Right == k {
					column = as.RightColumn
				}
				if err := tx.Exec("DELETE FROM "+as.Table+" WHERE "+column+" IN ?", ids).Error; err != nil {
					return fmt.Errorf("unlinking %s: %w", k, err)
				}
			}
			proto, err := models.NewOf(k)
			if err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(proto).Error; err != nil {
				return fmt.Errorf("deleting %s: %w", k, err)
			}
		}
		for _, k := range kinds {
			for _, e := range entitiesOf(objects, k) {
				err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).Create(e).Error
				if err != nil {
					return fmt.Errorf("saving %s: %w", models.Key(e), err)
				}
			}
		}
		for _, as := range models.Associations {
			for _, left := range entitiesOf(objects, as.Left) {
				id := left.Base().ID
				if err := tx.Exec("DELETE FROM "+as.Table+" WHERE "+as.LeftColumn+" = ?", id).Error; err != nil {
					return fmt.Errorf("unlinking %s: %w", models.Key(left), err)
				}
				for _, rightID := range as.Members(left) {
					err := tx.Exec("INSERT INTO "+as.Table+" ("+as.LeftColumn+", "+as.RightColumn+") VALUES (?, ?)", id, rightID).Error
					if err != nil {
						return fmt.Errorf("linking %s to %s: %w", models.Key(left), models.KeyOf(as.Right, rightID), err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return backendError("db", "commit", err)
	}
	for key := range deleted {
		s.deleted.Remove(key)
	}
	s.log.Debug("Committed", zap.Int("saved", len(objects)), zap.Int("deleted", len(deleted)))
	return nil
}

func (s *DBStorage) Delete(e models.Entity) error {
	if e == nil {
		return nil
	}
	key := models.Key(e)
	if !s.objects.Has(key) {
		if _, err := s.Get(e.Kind(), e.Base().ID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
	}
	removed, err := s.stageDelete(e)
	if err != nil {
		return err
	}
	s.log.Debug("Staged delete", zap.String("key", key), zap.Int("removed", removed))
	return nil
}

func (s *DBStorage) stageDelete(e models.Entity) (int, error) {
	key := models.Key(e)
	if s.deleted.Has(key) {
		return 0, nil
	}
	// stage the tracked instance when there is one
	if tracked, ok := s.objects.Get(key); ok {
		e = tracked
	}
	s.deleted.Set(key, e)
	s.objects.Remove(key)
	removed := 1
	id := e.Base().ID
	for _, o := range models.OwnedBy(e.Kind()) {
		deps, err := s.owned(o, id)
		if err != nil {
			return removed, err
		}
		for _, dep := range deps {
			n, err := s.stageDelete(dep)
			removed += n
			if err != nil {
				return removed, err
			}
		}
	}
	for _, as := range models.AssociationsOf(e.Kind()) {
		if as.Right != e.Kind() {
			continue
		}
		for _, left := range s.tracked(as.Left) {
			as.Unlink(left, id)
		}
	}
	return removed, nil
}

func (s *DBStorage) Related(owner models.Entity, kind models.Kind) ([]models.Entity, error) {
	if owner == nil {
		return nil, nil
	}
	id := owner.Base().ID
	if o, ok := models.FindOwnership(owner.Kind(), kind); ok {
		return s.owned(o, id)
	}
	as, ok := models.FindAssociation(owner.Kind(), kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s and %s", ErrNoRelation, owner.Kind(), kind)
	}
	if owner.Kind() == as.Left {
		return s.members(as, owner)
	}
	// join table for committed links, tracked instances take precedence
	linked := s.db.Table(as.Table).Select(as.LeftColumn).Where(as.RightColumn+" = ?", id)
	if _, err := s.query(as.Left, "id IN (?)", linked); err != nil {
		return nil, err
	}
	return linkedIn(s.tracked(as.Left), as, id), nil
}

// owned returns the dependents of ownerID along o, committed or staged
func (s *DBStorage) owned(o models.Ownership, ownerID string) ([]models.Entity, error) {
	if _, err := s.query(o.Dependent, o.Column+" = ?", ownerID); err != nil {
		return nil, err
	}
	// query tracked every matching row; the in-memory foreign key is authoritative
	return ownedIn(s.tracked(o.Dependent), o, ownerID), nil
}

// members resolves the Right side ids listed on left
func (s *DBStorage) members(as models.Association, left models.Entity) ([]models.Entity, error) {
	var result []models.Entity
	var missing []string
	ids := as.Members(left)
	for _, rightID := range ids {
		key := models.KeyOf(as.Right, rightID)
		if s.deleted.Has(key) {
			continue
		}
		if e, ok := s.objects.Get(key); ok {
			result = append(result, e)
		} else {
			missing = append(missing, rightID)
		}
	}
	if len(missing) > 0 {
		rows, err := s.query(as.Right, "id IN ?", missing)
		if err != nil {
			return nil, err
		}
		result = append(result, rows...)
	}
	return result, nil
}

// query loads rows of kind k and passes them through the identity map:
// rows already tracked come back as the tracked instance, staged deletions are skipped
func (s *DBStorage) query(k models.Kind, cond string, args ...any) ([]models.Entity, error) {
	dest, collect, err := models.Rows(k)
	if err != nil {
		return nil, err
	}
	q := s.db
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Find(dest).Error; err != nil {
		return nil, backendError("db", "query "+k.String(), err)
	}
	var result, fresh []models.Entity
	for _, row := range collect() {
		key := models.Key(row)
		if s.deleted.Has(key) {
			continue
		}
		if s.objects.SetIfAbsent(key, row) {
			fresh = append(fresh, row)
			result = append(result, row)
			continue
		}
		tracked, _ := s.objects.Get(key)
		result = append(result, tracked)
	}
	if err := s.loadLinks(k, fresh); err != nil {
		return nil, err
	}
	return result, nil
}

// loadLinks fills the association lists of freshly materialized Left entities
func (s *DBStorage) loadLinks(k models.Kind, fresh []models.Entity) error {
	if len(fresh) == 0 {
		return nil
	}
	byID := make(map[string]models.Entity, len(fresh))
	for _, e := range fresh {
		byID[e.Base().ID] = e
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	for _, as := range models.AssociationsOf(k) {
		if as.Left != k {
			continue
		}
		var links []link
		err := s.db.Table(as.Table).
			Select(as.LeftColumn+" AS left_id, "+as.RightColumn+" AS right_id").
			Where(as.LeftColumn+" IN ?", ids).
			Scan(&links).Error
		if err != nil {
			return backendError("db", "query "+as.Table, err)
		}
		for _, l := range links {
			as.Link(byID[l.LeftID], l.RightID)
		}
	}
	return nil
}

func (s *DBStorage) tracked(k models.Kind) []models.Entity {
	var result []models.Entity
	for item := range s.objects.IterBuffered() {
		if item.Val.Kind() == k {
			result = append(result, item.Val)
		}
	}
	return result
}

func (s *DBStorage) Close() error {
	s.objects.Clear()
	s.deleted.Clear()
	sqlDB, err := s.db.DB()
	if err != nil {
		return backendError("db", "close", err)
	}
	return backendError("db", "close", sqlDB.Close())
}

func idsOf(entities map[string]models.Entity, k models.Kind) []string {
	var ids []string
	for _, e := range entities {
		if e.Kind() == k {
			ids = append(ids, e.Base().ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func entitiesOf(entities map[string]models.Entity, k models.Kind) []models.Entity {
	var result []models.Entity
	for _, e := range entities {
		if e.Kind() == k {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b models.Entity) int {
		return a.Base().CreatedAt.Compare(b.Base().CreatedAt)
	})
	return result
}
