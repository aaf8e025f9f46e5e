package services

import (
	"context"
	"errors"
	"strings"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/repository"

	"gorm.io/gorm"
)

// ItemService manages the menu. Price edits and deletes recompute the totals
// of every order holding the item, under those orders' locks.
type ItemService struct {
	DB     *gorm.DB
	Repo   *repository.ItemRepository
	Orders *OrderService

	beforeLock func() // test hook, runs between the first holder read and locking
}

func NewItemService(db *gorm.DB, repo *repository.ItemRepository, orders *OrderService) *ItemService {
	return &ItemService{DB: db, Repo: repo, Orders: orders}
}

func (s *ItemService) List(ctx context.Context) ([]entity.Item, error) {
	items, err := s.Repo.List(s.DB.WithContext(ctx))
	return items, repoErr("item.list", i18n.MsgItemNotFound, err)
}

func (s *ItemService) Get(ctx context.Context, id uint) (*entity.Item, error) {
	it, err := s.Repo.FindByID(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, repoErr("item.get", i18n.MsgItemNotFound, err)
	}
	return it, nil
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (*entity.Item, error) {
	const op = "item.create"
	if err := checkItemInput(op, in); err != nil {
		return nil, err
	}
	it := entity.Item{Name: strings.TrimSpace(in.Name), Price: in.Price}
	if err := s.Repo.Create(s.DB.WithContext(ctx), &it); err != nil {
		return nil, persistence(op, err)
	}
	return &it, nil
}

func (s *ItemService) Update(ctx context.Context, id uint, in ItemInput) (*entity.Item, error) {
	const op = "item.update"
	if err := checkItemInput(op, in); err != nil {
		return nil, err
	}

	var out *entity.Item
	affected, err := s.withOrders(ctx, op, id, func(tx *gorm.DB) error {
		it, err := s.Repo.FindByID(tx, id)
		if err != nil {
			return repoErr(op, i18n.MsgItemNotFound, err)
		}
		it.Name, it.Price = strings.TrimSpace(in.Name), in.Price
		if err := s.Repo.Update(tx, it); err != nil {
			return persistence(op, err)
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Orders.publishUpdated(ctx, affected)
	return out, nil
}

// Delete removes the item from every order's set, then the item itself.
// Orders are kept and their totals recomputed.
func (s *ItemService) Delete(ctx context.Context, id uint) error {
	const op = "item.delete"
	affected, err := s.withOrders(ctx, op, id, func(tx *gorm.DB) error {
		n, err := s.Repo.Delete(tx, id)
		if err != nil {
			return persistence(op, err)
		}
		if n == 0 {
			return notFound(op, i18n.MsgItemNotFound, gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Orders.publishUpdated(ctx, affected)
	return nil
}

// errHoldersChanged aborts a withOrders attempt whose locked set went stale.
var errHoldersChanged = errors.New("orders holding the item changed")

const maxHolderRetries = 5

// withOrders runs fn on itemID and recomputes every order holding the item,
// with those orders locked and the item row locked for the whole
// transaction. Orders that pick the item up after the locks are chosen
// make the attempt roll back and start again with the larger set.
// It returns the ids that were recomputed.
func (s *ItemService) withOrders(ctx context.Context, op string, itemID uint, fn func(tx *gorm.DB) error) ([]uint, error) {
	db := s.DB.WithContext(ctx)
	ids, err := s.Repo.OrderIDsContaining(db, itemID)
	if err != nil {
		return nil, persistence(op, err)
	}
	if s.beforeLock != nil {
		s.beforeLock()
	}

	for attempt := 0; attempt < maxHolderRetries; attempt++ {
		var current []uint
		unlock := s.Orders.locks.LockMany(ids)
		err = db.Transaction(func(tx *gorm.DB) error {
			if _, err := s.Repo.LockByID(tx, itemID); err != nil {
				return repoErr(op, i18n.MsgItemNotFound, err)
			}
			var err error
			if current, err = s.Repo.OrderIDsContaining(tx, itemID); err != nil {
				return persistence(op, err)
			}
			if !subset(current, ids) {
				return errHoldersChanged
			}

			if err := fn(tx); err != nil {
				return err
			}
			for _, oid := range current {
				if _, err := s.Orders.recompute(tx, oid); err != nil {
					return persistence(op, err)
				}
			}
			return nil
		})
		unlock()

		if errors.Is(err, errHoldersChanged) {
			ids = uniqueIDs(append(ids, current...))
			continue
		}
		if err != nil {
			return nil, err
		}
		return current, nil
	}
	return nil, persistence(op, errHoldersChanged)
}

func subset(ids, of []uint) bool {
	set := make(map[uint]struct{}, len(of))
	for _, id := range of {
		set[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
