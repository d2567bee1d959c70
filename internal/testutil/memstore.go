// Package testutil implementaciones en memoria de los repositorios para tests
// de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/forecast-cloud/internal/domain"
	"github.com/jhoicas/forecast-cloud/internal/domain/entity"
	"github.com/jhoicas/forecast-cloud/internal/domain/repository"
)

// Store base de datos en memoria compartida por todos los repositorios.
type Store struct {
	mu            sync.Mutex
	tick          int64
	orderNumber   int64
	now           func() time.Time
	users         map[string]*entity.User
	suppliers     map[string]*entity.Supplier
	clients       map[string]*entity.Client
	orders        map[string]*entity.Order
	logs          []*entity.StatusLog
	notifications []*entity.Notification
	raw           []*entity.RawMaterial

	// FailTx hace que Run devuelva este error sin ejecutar la función.
	FailTx error
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		users:     map[string]*entity.User{},
		suppliers: map[string]*entity.Supplier{},
		clients:   map[string]*entity.Client{},
		orders:    map[string]*entity.Order{},
	}
}

// SetNow fija el reloj usado para CreatedAt.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// stamp hora estrictamente creciente para ordenar por creación.
func (s *Store) stamp() time.Time {
	s.tick++
	return s.now().Add(time.Duration(s.tick) * time.Microsecond)
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }
func (s *Store) Suppliers() *SupplierRepo         { return &SupplierRepo{s} }
func (s *Store) Clients() *ClientRepo             { return &ClientRepo{s} }
func (s *Store) Orders() *OrderRepo               { return &OrderRepo{s} }
func (s *Store) StatusLogs() *StatusLogRepo       { return &StatusLogRepo{s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s} }
func (s *Store) RawMaterials() *RawMaterialRepo   { return &RawMaterialRepo{s} }

// Run ejecuta fn con los repositorios del store. Sin rollback.
func (s *Store) Run(ctx context.Context, fn func(orders repository.OrderRepository, logs repository.StatusLogRepository) error) error {
	if s.FailTx != nil {
		return s.FailTx
	}
	return fn(s.Orders(), s.StatusLogs())
}

// AddUser inserta un usuario directamente y lo devuelve con ID.
func (s *Store) AddUser(u entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.stamp()
	}
	s.users[u.ID] = &u
	c := u
	return &c
}

// AddSupplier inserta un proveedor directamente.
func (s *Store) AddSupplier(sup entity.Supplier) *entity.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sup.ID == "" {
		sup.ID = uuid.NewString()
	}
	if sup.CreatedAt.IsZero() {
		sup.CreatedAt = s.stamp()
	}
	s.suppliers[sup.ID] = &sup
	c := sup
	return &c
}

// AddOrder inserta un pedido directamente (respeta CreatedAt si viene fijado).
func (s *Store) AddOrder(o entity.Order) *entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertOrder(&o)
	return s.orderCopy(&o)
}

// OrderCount número de pedidos almacenados.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Logs copia de los registros de estado.
func (s *Store) Logs() []entity.StatusLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StatusLog, 0, len(s.logs))
	for _, l := range s.logs {
		out = append(out, *l)
	}
	return out
}

// AllNotifications copia de las notificaciones.
func (s *Store) AllNotifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out
}

func (s *Store) insertOrder(o *entity.Order) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.orderNumber++
	if o.Number == 0 {
		o.Number = s.orderNumber
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.stamp()
	}
	s.setDeliveries(o)
	stored := *o
	stored.Deliveries = append([]entity.Delivery(nil), o.Deliveries...)
	s.orders[o.ID] = &stored
}

func (s *Store) setDeliveries(o *entity.Order) {
	for i := range o.Deliveries {
		if o.Deliveries[i].ID == "" {
			o.Deliveries[i].ID = uuid.NewString()
		}
		o.Deliveries[i].OrderID = o.ID
		if o.Deliveries[i].Status == "" {
			o.Deliveries[i].Status = entity.DeliveryPending
		}
	}
	sort.SliceStable(o.Deliveries, func(i, j int) bool { return o.Deliveries[i].Date.Before(o.Deliveries[j].Date) })
}

func (s *Store) orderCopy(o *entity.Order) *entity.Order {
	c := *o
	c.Deliveries = append([]entity.Delivery(nil), o.Deliveries...)
	if sup, ok := s.suppliers[o.SupplierID]; ok {
		c.SupplierName = sup.Name
	}
	if u, ok := s.users[o.CommercialID]; ok {
		c.CommercialName = u.DisplayName()
	}
	return &c
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.stamp()
	u.UpdatedAt = u.CreatedAt
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.User{}
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.ActiveOnly && !u.Active {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	list, _ := r.List(ctx, repository.UserFilter{ActiveOnly: true})
	ids := make([]string, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.users {
		if existing.ID != u.ID && strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	u.UpdatedAt = r.s.stamp()
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.CommercialID == id {
			return domain.ErrInUse
		}
	}
	delete(r.s.users, id)
	return nil
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct{ s *Store }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) duplicated(s *entity.Supplier) bool {
	for _, existing := range r.s.suppliers {
		if existing.ID != s.ID && strings.EqualFold(existing.Name, s.Name) {
			return true
		}
	}
	return false
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.duplicated(s) {
		return domain.ErrDuplicate
	}
	s.ID = uuid.NewString()
	s.CreatedAt = r.s.stamp()
	c := *s
	r.s.suppliers[s.ID] = &c
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.duplicated(s) {
		return domain.ErrDuplicate
	}
	c := *s
	r.s.suppliers[s.ID] = &c
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.suppliers, id)
	for oid, o := range r.s.orders {
		if o.SupplierID == id {
			delete(r.s.orders, oid)
		}
	}
	return nil
}

func (r *SupplierRepo) List(_ context.Context, f repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []*entity.Supplier{}
	for _, s := range r.s.suppliers {
		if f.City != "" && s.City != f.City {
			continue
		}
		if f.ActiveOnly && !s.Active {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
			continue
		}
		c := *s
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Presentation < b.Presentation
	})
	total := len(all)
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			all = all[:0]
		} else {
			all = all[f.Offset:]
		}
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientRepo implementa repository.ClientRepository.
type ClientRepo struct{ s *Store }

var _ repository.ClientRepository = (*ClientRepo)(nil)

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.stamp()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	c.UpdatedAt = r.s.stamp()
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.clients, id)
	return nil
}

func (r *ClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Client{}
	for _, c := range r.s.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// OrderRepo implementa repository.OrderRepository.
type OrderRepo struct{ s *Store }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.Number = 0
	o.CreatedAt = time.Time{}
	r.s.insertOrder(o)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return r.s.orderCopy(o), nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Number = current.Number
	o.CreatedAt = current.CreatedAt
	for i := range o.Deliveries {
		o.Deliveries[i].ID = ""
	}
	r.s.setDeliveries(o)
	stored := *o
	stored.Deliveries = append([]entity.Delivery(nil), o.Deliveries...)
	r.s.orders[o.ID] = &stored
	return nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.orders, id)
	kept := r.s.logs[:0]
	for _, l := range r.s.logs {
		if l.OrderID != id {
			kept = append(kept, l)
		}
	}
	r.s.logs = kept
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (r *OrderRepo) match(o *entity.Order, f repository.OrderFilter) bool {
	switch {
	case len(f.Statuses) > 0 && !inSet(f.Statuses, o.Status),
		len(f.EggTypes) > 0 && !inSet(f.EggTypes, o.EggType),
		f.SupplierID != "" && o.SupplierID != f.SupplierID,
		f.City != "" && o.City != f.City,
		f.EggType != "" && o.EggType != f.EggType,
		f.Presentation != "" && o.Presentation != f.Presentation,
		f.Status != "" && o.Status != f.Status,
		f.CreatedOn != nil && !sameDay(o.CreatedAt, *f.CreatedOn),
		f.Week != nil && (o.Week == nil || !sameDay(*o.Week, *f.Week)),
		f.DeliveryFrom != nil && (o.DeliveryDate == nil || o.DeliveryDate.Before(*f.DeliveryFrom)),
		f.DeliveryTo != nil && (o.DeliveryDate == nil || o.DeliveryDate.After(*f.DeliveryTo)),
		f.Year != 0 && o.CreatedAt.Year() != f.Year:
		return false
	}
	if f.CommercialRole != "" {
		u, ok := r.s.users[o.CommercialID]
		if !ok || u.Role != f.CommercialRole {
			return false
		}
	}
	return true
}

func timeKey(t *time.Time) int64 {
	if t == nil {
		return 1 << 62
	}
	return t.Unix()
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Order{}
	for _, o := range r.s.orders {
		if r.match(o, f) {
			out = append(out, r.s.orderCopy(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ka, kb := timeKey(a.Week), timeKey(b.Week); ka != kb {
			return ka < kb
		}
		if ka, kb := timeKey(a.DeliveryDate), timeKey(b.DeliveryDate); ka != kb {
			return ka < kb
		}
		return a.Number < b.Number
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *OrderRepo) MonthlyTotals(_ context.Context, f repository.OrderFilter) ([]repository.MonthlyTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type key struct {
		month  int
		status string
	}
	sums := map[key]decimal.Decimal{}
	for _, o := range r.s.orders {
		if !r.match(o, f) {
			continue
		}
		k := key{int(o.CreatedAt.Month()), o.Status}
		sums[k] = sums[k].Add(decimal.NewFromInt(o.EffectiveQuantity()))
	}
	out := make([]repository.MonthlyTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, repository.MonthlyTotal{Month: k.month, Status: k.status, Kg: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Status < out[j].Status
	})
	return out, nil
}

func (r *OrderRepo) Weeks(_ context.Context, statuses []string, limit int) ([]time.Time, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int64]time.Time{}
	for _, o := range r.s.orders {
		if o.Week == nil || (len(statuses) > 0 && !inSet(statuses, o.Status)) {
			continue
		}
		seen[o.Week.Unix()] = *o.Week
	}
	out := make([]time.Time, 0, len(seen))
	for _, w := range seen {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepo) Years(_ context.Context, statuses []string) ([]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int]bool{}
	for _, o := range r.s.orders {
		if len(statuses) > 0 && !inSet(statuses, o.Status) {
			continue
		}
		seen[o.CreatedAt.Year()] = true
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out, nil
}

func (r *OrderRepo) PendingDeliveries(_ context.Context, from, to *time.Time) ([]repository.PendingDelivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []repository.PendingDelivery{}
	for _, o := range r.s.orders {
		for _, d := range o.Deliveries {
			if d.Status != entity.DeliveryPending {
				continue
			}
			if (from != nil && d.Date.Before(*from)) || (to != nil && d.Date.After(*to)) {
				continue
			}
			name := ""
			if sup, ok := r.s.suppliers[o.SupplierID]; ok {
				name = sup.Name
			}
			out = append(out, repository.PendingDelivery{
				DeliveryID:   d.ID,
				OrderID:      o.ID,
				OrderNumber:  o.Number,
				SupplierName: name,
				City:         o.City,
				EggType:      o.EggType,
				Presentation: o.Presentation,
				Date:         d.Date,
				Quantity:     d.Quantity,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out, nil
}

// ── Registros de estado ───────────────────────────────────────────────────────

// StatusLogRepo implementa repository.StatusLogRepository.
type StatusLogRepo struct{ s *Store }

var _ repository.StatusLogRepository = (*StatusLogRepo)(nil)

func (r *StatusLogRepo) Create(_ context.Context, l *entity.StatusLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = uuid.NewString()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.stamp()
	}
	c := *l
	r.s.logs = append(r.s.logs, &c)
	return nil
}

func (r *StatusLogRepo) enrich(l *entity.StatusLog) *entity.StatusLog {
	c := *l
	if o, ok := r.s.orders[l.OrderID]; ok {
		c.OrderNumber = o.Number
	}
	if u, ok := r.s.users[l.UserID]; ok {
		c.UserName = u.DisplayName()
	}
	return &c
}

func (r *StatusLogRepo) List(_ context.Context, f repository.StatusLogFilter) ([]*entity.StatusLog, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []*entity.StatusLog{}
	for _, l := range r.s.logs {
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.Date != nil && !sameDay(l.CreatedAt, *f.Date) {
			continue
		}
		all = append(all, r.enrich(l))
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			all = all[:0]
		} else {
			all = all[f.Offset:]
		}
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *StatusLogRepo) LatestByOrders(_ context.Context, orderIDs, toStatuses []string) (map[string]*entity.StatusLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]*entity.StatusLog{}
	for _, l := range r.s.logs {
		if !inSet(orderIDs, l.OrderID) || (len(toStatuses) > 0 && !inSet(toStatuses, l.ToStatus)) {
			continue
		}
		if prev, ok := out[l.OrderID]; !ok || l.CreatedAt.After(prev.CreatedAt) {
			out[l.OrderID] = r.enrich(l)
		}
	}
	return out, nil
}

func (r *StatusLogRepo) Users(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := []*entity.User{}
	for _, l := range r.s.logs {
		u, ok := r.s.users[l.UserID]
		if !ok || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ── Notificaciones ────────────────────────────────────────────────────────────

// NotificationRepo implementa repository.NotificationRepository.
type NotificationRepo struct{ s *Store }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) CreateForUsers(_ context.Context, userIDs []string, n entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range userIDs {
		c := n
		c.ID = uuid.NewString()
		c.UserID = id
		c.CreatedAt = r.s.stamp()
		r.s.notifications = append(r.s.notifications, &c)
	}
	return nil
}

func (r *NotificationRepo) Prune(_ context.Context, userIDs []string, keep int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := map[string]int{}
	kept := make([]*entity.Notification, 0, len(r.s.notifications))
	var removed int64
	// más recientes primero
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if len(userIDs) > 0 && !inSet(userIDs, n.UserID) {
			kept = append(kept, n)
			continue
		}
		count[n.UserID]++
		if count[n.UserID] > keep {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	r.s.notifications = kept
	return removed, nil
}

func (r *NotificationRepo) ListUnread(_ context.Context, userID string, limit int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID != userID || n.Read {
			continue
		}
		c := *n
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			total++
		}
	}
	return total, nil
}

func (r *NotificationRepo) LatestSound(_ context.Context, userID string) (*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID == userID && n.PlaySound {
			c := *n
			return &c, nil
		}
	}
	return nil, nil
}

func (r *NotificationRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.notifications[:0]
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	r.s.notifications = kept
	return nil
}

// ── Materia prima ─────────────────────────────────────────────────────────────

// RawMaterialRepo implementa repository.RawMaterialRepository.
type RawMaterialRepo struct{ s *Store }

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

func (r *RawMaterialRepo) Create(_ context.Context, m *entity.RawMaterial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = r.s.stamp()
	c := *m
	r.s.raw = append(r.s.raw, &c)
	return nil
}

func (r *RawMaterialRepo) ListRecent(_ context.Context, limit int) ([]*entity.RawMaterial, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.RawMaterial, 0, len(r.s.raw))
	for _, m := range r.s.raw {
		c := *m
		if u, ok := r.s.users[m.CreatedBy]; ok {
			c.CreatedByName = u.DisplayName()
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RawMaterialRepo) MonthlyTotals(_ context.Context, year int) ([]repository.MonthlyTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := map[int]decimal.Decimal{}
	for _, m := range r.s.raw {
		if m.Date.Year() != year {
			continue
		}
		month := int(m.Date.Month())
		sums[month] = sums[month].Add(decimal.NewFromInt(m.QuantityKg))
	}
	out := make([]repository.MonthlyTotal, 0, len(sums))
	for month, kg := range sums {
		out = append(out, repository.MonthlyTotal{Month: month, Kg: kg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
