package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"orderdesk/entity"
	"orderdesk/events"
	"orderdesk/pkg/i18n"
	"orderdesk/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxItemNameLen = 100

// prices are decimal(10,2): at most 8 digits before the point
var maxPrice = decimal.New(1, 8)

// OrderService owns the order aggregate. Every change to an order's fields
// or item set runs under that order's lock and inside one transaction, and
// ends with the total being recomputed from the final item set.
type OrderService struct {
	DB     *gorm.DB
	Repo   *repository.OrderRepository
	Items  *repository.ItemRepository
	Events events.Publisher

	locks keyedMutex
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	items *repository.ItemRepository,
	pub events.Publisher,
) *OrderService {
	if pub == nil {
		pub = events.Nop
	}
	return &OrderService{DB: db, Repo: repo, Items: items, Events: pub}
}

// ----- DTOs from controllers -----

// ItemInput is a full item description as carried by the JSON API.
type ItemInput struct {
	Name  string
	Price decimal.NullDecimal
}

// OrderInput is the form path: items are picked by id and must exist.
type OrderInput struct {
	TableNumber int
	Status      entity.OrderStatus // empty means pending
	ItemIDs     []uint
}

// OrderPatch changes any subset of an order. At most one of ItemIDs and
// Items should be set; either one replaces the whole item set.
type OrderPatch struct {
	TableNumber *int
	Status      *entity.OrderStatus
	ItemIDs     *[]uint
	Items       *[]ItemInput
}

// TotalOf sums item prices. Items without a price count as zero.
func TotalOf(items []entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Price.Valid {
			total = total.Add(it.Price.Decimal)
		}
	}
	return total
}

// ----- Read -----

func (s *OrderService) List(ctx context.Context) ([]entity.Order, error) {
	out, err := s.Repo.List(s.DB.WithContext(ctx))
	return out, repoErr("order.list", i18n.MsgOrderNotFound, err)
}

func (s *OrderService) Get(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := s.Repo.FindByID(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, repoErr("order.get", i18n.MsgOrderNotFound, err)
	}
	return o, nil
}

// Search resolves a free-text token. Empty returns every order. A token that
// names a status (in any supported language, any case) matches orders whose
// table number contains the token or whose status contains the resolved key;
// anything else matches on table number only.
func (s *OrderService) Search(ctx context.Context, query string) ([]entity.Order, error) {
	if query == "" {
		return s.List(ctx)
	}
	status, _ := i18n.ResolveStatus(query)
	out, err := s.Repo.Search(s.DB.WithContext(ctx), query, status)
	return out, repoErr("order.search", i18n.MsgOrderNotFound, err)
}

// ----- Create -----

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*entity.Order, error) {
	const op = "order.create"
	status, err := checkStatus(op, in.Status)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.ItemIDs)

	var out *entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireItems(tx, op, ids); err != nil {
			return err
		}
		o := entity.Order{TableNumber: in.TableNumber, Status: status}
		if err := s.Repo.Create(tx, &o); err != nil {
			return persistence(op, err)
		}
		out, err = s.attach(tx, op, o.ID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, events.New(events.OrderCreated, out.ID, out))
	return out, nil
}

// CreateWithItems is the API path: each item is resolved with
// FindExistingOrInsert before being attached.
func (s *OrderService) CreateWithItems(ctx context.Context, tableNumber int, st entity.OrderStatus, items []ItemInput) (*entity.Order, error) {
	const op = "order.create"
	status, err := checkStatus(op, st)
	if err != nil {
		return nil, err
	}
	if err := checkItemInputs(op, items); err != nil {
		return nil, err
	}

	var out *entity.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.resolveItems(tx, op, items)
		if err != nil {
			return err
		}
		o := entity.Order{TableNumber: tableNumber, Status: status}
		if err := s.Repo.Create(tx, &o); err != nil {
			return persistence(op, err)
		}
		out, err = s.attach(tx, op, o.ID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, events.New(events.OrderCreated, out.ID, out))
	return out, nil
}

// ----- Update -----

func (s *OrderService) Update(ctx context.Context, id uint, p OrderPatch) (*entity.Order, error) {
	const op = "order.update"
	fields := map[string]any{}
	if p.TableNumber != nil {
		fields["table_number"] = *p.TableNumber
	}
	if p.Status != nil {
		st, err := checkStatus(op, *p.Status)
		if err != nil {
			return nil, err
		}
		fields["status"] = st
	}
	if p.Items != nil {
		if err := checkItemInputs(op, *p.Items); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	var out *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireOrder(tx, op, id); err != nil {
			return err
		}
		if err := s.Repo.UpdateFields(tx, id, fields); err != nil {
			return persistence(op, err)
		}

		var ids []uint
		replace := false
		switch {
		case p.ItemIDs != nil:
			ids, replace = uniqueIDs(*p.ItemIDs), true
			if err := s.requireItems(tx, op, ids); err != nil {
				return err
			}
		case p.Items != nil:
			var err error
			if ids, err = s.resolveItems(tx, op, *p.Items); err != nil {
				return err
			}
			replace = true
		}
		if replace {
			if err := s.Repo.ReplaceItems(tx, id, ids); err != nil {
				return persistence(op, err)
			}
		}

		var err error
		out, err = s.reload(tx, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, events.New(events.OrderUpdated, out.ID, out))
	return out, nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID, itemID uint) (*entity.Order, error) {
	const op = "order.add_item"
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var out *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireOrder(tx, op, orderID); err != nil {
			return err
		}
		if _, err := s.Items.LockByID(tx, itemID); err != nil {
			return repoErr(op, i18n.MsgItemNotFound, err)
		}
		var err error
		out, err = s.attach(tx, op, orderID, []uint{itemID})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, events.New(events.OrderUpdated, out.ID, out))
	return out, nil
}

// RemoveItem drops itemID from the order's set. Removing an item that is not
// in the set is not an error.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uint) (*entity.Order, error) {
	const op = "order.remove_item"
	unlock := s.locks.Lock(orderID)
	defer unlock()

	var out *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireOrder(tx, op, orderID); err != nil {
			return err
		}
		if _, err := s.Repo.RemoveItem(tx, orderID, itemID); err != nil {
			return persistence(op, err)
		}
		var err error
		out, err = s.reload(tx, op, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Events.Publish(ctx, events.New(events.OrderUpdated, out.ID, out))
	return out, nil
}

// ----- Delete -----

func (s *OrderService) Delete(ctx context.Context, id uint) error {
	const op = "order.delete"
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.Repo.Delete(tx, id)
		if err != nil {
			return persistence(op, err)
		}
		if n == 0 {
			return notFound(op, i18n.MsgOrderNotFound, gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Events.Publish(ctx, events.New(events.OrderDeleted, id, nil))
	return nil
}

// ----- Totals -----

// RecomputeTotal recalculates and stores the order's total.
func (s *OrderService) RecomputeTotal(ctx context.Context, id uint) (decimal.Decimal, error) {
	const op = "order.recompute_total"
	unlock := s.locks.Lock(id)
	defer unlock()

	var total decimal.Decimal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireOrder(tx, op, id); err != nil {
			return err
		}
		var err error
		total, err = s.recompute(tx, id)
		if err != nil {
			return persistence(op, err)
		}
		return nil
	})
	return total, err
}

func (s *OrderService) recompute(tx *gorm.DB, id uint) (decimal.Decimal, error) {
	items, err := s.Repo.ItemsOf(tx, id)
	if err != nil {
		return decimal.Zero, err
	}
	total := TotalOf(items)
	return total, s.Repo.SetTotal(tx, id, total)
}

// publishUpdated reloads orders touched by an item change and announces them.
func (s *OrderService) publishUpdated(ctx context.Context, ids []uint) {
	for _, id := range ids {
		o, err := s.Repo.FindByID(s.DB.WithContext(ctx), id)
		if err != nil {
			continue
		}
		s.Events.Publish(ctx, events.New(events.OrderUpdated, o.ID, o))
	}
}

// ----- Helpers -----

func (s *OrderService) attach(tx *gorm.DB, op string, orderID uint, ids []uint) (*entity.Order, error) {
	if err := s.Repo.AddItems(tx, orderID, ids); err != nil {
		return nil, persistence(op, err)
	}
	return s.reload(tx, op, orderID)
}

func (s *OrderService) reload(tx *gorm.DB, op string, id uint) (*entity.Order, error) {
	if _, err := s.recompute(tx, id); err != nil {
		return nil, persistence(op, err)
	}
	o, err := s.Repo.FindByID(tx, id)
	if err != nil {
		return nil, repoErr(op, i18n.MsgOrderNotFound, err)
	}
	return o, nil
}

func (s *OrderService) requireOrder(tx *gorm.DB, op string, id uint) error {
	ok, err := s.Repo.Exists(tx, id)
	if err != nil {
		return persistence(op, err)
	}
	if !ok {
		return notFound(op, i18n.MsgOrderNotFound, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *OrderService) requireItems(tx *gorm.DB, op string, ids []uint) error {
	found, err := s.Items.LockByIDs(tx, ids)
	if err != nil {
		return persistence(op, err)
	}
	if len(found) != len(ids) {
		return validation(op, "items", i18n.MsgUnknownItem)
	}
	return nil
}

func (s *OrderService) resolveItems(tx *gorm.DB, op string, items []ItemInput) ([]uint, error) {
	ids := make([]uint, 0, len(items))
	for _, in := range items {
		it, _, err := s.Items.FindExistingOrInsert(tx, strings.TrimSpace(in.Name), in.Price)
		if err != nil {
			return nil, persistence(op, err)
		}
		ids = append(ids, it.ID)
	}
	return uniqueIDs(ids), nil
}

func checkStatus(op string, st entity.OrderStatus) (entity.OrderStatus, error) {
	out, ok := entity.ParseOrderStatus(string(st))
	if !ok {
		return "", validation(op, "status", i18n.MsgInvalidStatus)
	}
	return out, nil
}

func checkItemInput(op string, in ItemInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return validation(op, "name", i18n.MsgItemNameRequired)
	}
	if utf8.RuneCountInString(name) > maxItemNameLen {
		return validation(op, "name", i18n.MsgItemNameTooLong)
	}
	if in.Price.Valid {
		p := in.Price.Decimal
		if p.IsNegative() || !p.Equal(p.Round(2)) || !p.LessThan(maxPrice) {
			return validation(op, "price", i18n.MsgInvalidPrice)
		}
	}
	return nil
}

func checkItemInputs(op string, items []ItemInput) error {
	for _, in := range items {
		if err := checkItemInput(op, in); err != nil {
			return err
		}
	}
	return nil
}

// uniqueIDs drops duplicates and zero ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
