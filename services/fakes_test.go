package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookstore/config"
	"bookstore/models"
	"bookstore/pricing"
)

func testConfig() *config.Config {
	return &config.Config{
		PaymentCurrency: "usd",
		ShippingFee:     499,
		FreeShippingMin: 5000,
		GuestCartTTL:    time.Hour,
		CheckoutTTL:     30 * time.Minute,
		LowStockLimit:   5,
	}
}

type fakeBooks struct {
	mu     sync.Mutex
	books  map[int]*models.Book
	nextID int
	lists  int
}

func newFakeBooks(books ...models.Book) *fakeBooks {
	f := &fakeBooks{books: map[int]*models.Book{}, nextID: 1}
	for i := range books {
		b := books[i]
		if b.ID == 0 {
			b.ID = f.nextID
		}
		if b.ID >= f.nextID {
			f.nextID = b.ID + 1
		}
		f.books[b.ID] = &b
	}
	return f
}

func (f *fakeBooks) copyOf(b *models.Book) *models.Book {
	c := *b
	c.SalePrice = pricing.DiscountedPrice(c.Price, c.OnSale, c.DiscountPercentage)
	return &c
}

func (f *fakeBooks) List(_ context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := []models.Book{}
	for _, b := range f.books {
		if !filter.IncludeInactive && !b.IsActive {
			continue
		}
		out = append(out, *f.copyOf(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeBooks) GetByID(_ context.Context, id int) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return f.copyOf(b), nil
}

func (f *fakeBooks) GetByIDs(_ context.Context, ids []int) (map[int]*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int]*models.Book{}
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out[id] = f.copyOf(b)
		}
	}
	return out, nil
}

func (f *fakeBooks) ListByCategorySlug(_ context.Context, slug string) ([]models.Book, error) {
	return []models.Book{}, nil
}

func (f *fakeBooks) Create(_ context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	book.ID = f.nextID
	book.IsActive = true
	f.nextID++
	c := *book
	f.books[book.ID] = &c
	return nil
}

func (f *fakeBooks) Update(_ context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[book.ID]; !ok {
		return models.ErrNotFound
	}
	c := *book
	f.books[book.ID] = &c
	return nil
}

func (f *fakeBooks) AdjustStock(_ context.Context, id, delta int) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if b.Stock+delta < 0 {
		return nil, models.ErrInsufficientStock
	}
	b.Stock += delta
	return f.copyOf(b), nil
}

func (f *fakeBooks) SetCover(_ context.Context, id int, url, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return models.ErrNotFound
	}
	b.CoverURL, b.CoverPublicID = url, publicID
	return nil
}

func (f *fakeBooks) Deactivate(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return models.ErrNotFound
	}
	b.IsActive = false
	return nil
}

func (f *fakeBooks) stock(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[id].Stock
}

type fakeCategories struct {
	cats map[int]*models.BookCategory
}

func newFakeCategories(cats ...models.BookCategory) *fakeCategories {
	f := &fakeCategories{cats: map[int]*models.BookCategory{}}
	for i := range cats {
		c := cats[i]
		f.cats[c.ID] = &c
	}
	return f
}

func (f *fakeCategories) List(context.Context) ([]models.BookCategory, error) {
	out := []models.BookCategory{}
	for _, c := range f.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, id int) (*models.BookCategory, error) {
	c, ok := f.cats[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) Create(_ context.Context, cat *models.BookCategory) error {
	for _, c := range f.cats {
		if c.Slug == cat.Slug {
			return models.NewValidationError("category already exists")
		}
	}
	cat.ID = len(f.cats) + 1
	c := *cat
	f.cats[cat.ID] = &c
	return nil
}

func (f *fakeCategories) Update(_ context.Context, cat *models.BookCategory) error {
	if _, ok := f.cats[cat.ID]; !ok {
		return models.ErrNotFound
	}
	c := *cat
	f.cats[cat.ID] = &c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id int) error {
	if _, ok := f.cats[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.cats, id)
	return nil
}

type cartLine struct {
	bookID   int
	quantity int
}

type fakeCarts struct {
	mu    sync.Mutex
	books *fakeBooks
	lines map[int][]cartLine
}

func newFakeCarts(books *fakeBooks) *fakeCarts {
	return &fakeCarts{books: books, lines: map[int][]cartLine{}}
}

func (f *fakeCarts) GetItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	f.mu.Lock()
	lines := append([]cartLine(nil), f.lines[userID]...)
	f.mu.Unlock()

	items := []models.CartItem{}
	for _, l := range lines {
		b, err := f.books.GetByID(ctx, l.bookID)
		if err != nil {
			continue
		}
		items = append(items, models.CartItem{BookID: l.bookID, Book: b, Quantity: l.quantity})
	}
	return items, nil
}

func (f *fakeCarts) GetQuantity(_ context.Context, userID, bookID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines[userID] {
		if l.bookID == bookID {
			return l.quantity, nil
		}
	}
	return 0, nil
}

func (f *fakeCarts) AddItem(_ context.Context, userID, bookID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[userID] {
		if l.bookID == bookID {
			f.lines[userID][i].quantity += quantity
			return nil
		}
	}
	f.lines[userID] = append(f.lines[userID], cartLine{bookID: bookID, quantity: quantity})
	return nil
}

func (f *fakeCarts) SetQuantity(_ context.Context, userID, bookID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[userID] {
		if l.bookID == bookID {
			f.lines[userID][i].quantity = quantity
			return nil
		}
	}
	f.lines[userID] = append(f.lines[userID], cartLine{bookID: bookID, quantity: quantity})
	return nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, userID, bookID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lines[userID] {
		if l.bookID == bookID {
			f.lines[userID] = append(f.lines[userID][:i], f.lines[userID][i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeCarts) Clear(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, userID)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	carts     *fakeCarts
	books     *fakeBooks
	orders    map[int]*models.Order
	nextID    int
	finalizes int
}

func newFakeOrders(carts *fakeCarts, books *fakeBooks) *fakeOrders {
	return &fakeOrders{carts: carts, books: books, orders: map[int]*models.Order{}, nextID: 1}
}

func (f *fakeOrders) GetByID(_ context.Context, id int) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (f *fakeOrders) FindByPaymentIntent(_ context.Context, intentID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.PaymentIntentID != nil && *o.PaymentIntentID == intentID {
			c := *o
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int) ([]models.OrderSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.OrderSummary{}
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, models.OrderSummary{ID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status, Total: o.Total})
		}
	}
	return out, nil
}

func (f *fakeOrders) List(_ context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeOrders) add(o models.Order) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = f.nextID
	f.nextID++
	f.orders[o.ID] = &o
	return &o
}

func (f *fakeOrders) FinalizeCheckout(ctx context.Context, params models.FinalizeCheckoutParams) (*models.Order, error) {
	f.mu.Lock()
	f.finalizes++
	f.mu.Unlock()

	if existing, err := f.FindByPaymentIntent(ctx, params.PaymentIntentID); err == nil {
		return existing, nil
	}

	if len(params.Lines) == 0 {
		return nil, models.ErrCartEmpty
	}
	if params.Totals.Total != params.ExpectedTotal {
		return nil, models.ErrPaymentMismatch
	}

	orderItems := []models.OrderItem{}
	for _, l := range params.Lines {
		book, err := f.books.GetByID(ctx, l.BookID)
		if err != nil {
			return nil, models.ErrBookUnavailable
		}
		if book.Stock < l.Quantity {
			return nil, models.ErrInsufficientStock
		}
		l.LineTotal = l.UnitPrice * l.Quantity
		orderItems = append(orderItems, l)
	}

	for _, l := range params.Lines {
		f.books.AdjustStock(ctx, l.BookID, -l.Quantity)
	}
	f.carts.Clear(ctx, params.UserID)

	totals := params.Totals
	userID, methodID, intentID, paymentType := params.UserID, params.PaymentMethodID, params.PaymentIntentID, models.PaymentTypeCard
	return f.add(models.Order{
		OrderNumber:     params.OrderNumber,
		UserID:          &userID,
		Channel:         models.ChannelOnline,
		Status:          models.OrderStatusPaid,
		Shipping:        params.Shipping,
		CustomerEmail:   params.CustomerEmail,
		PaymentMethodID: &methodID,
		PaymentIntentID: &intentID,
		PaymentType:     &paymentType,
		Subtotal:        totals.Subtotal,
		DiscountTotal:   totals.DiscountTotal,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		Items:           orderItems,
	}), nil
}

type fakePOS struct {
	mu     sync.Mutex
	books  *fakeBooks
	orders map[int]*models.Order
	nextID int
	now    time.Time
}

func newFakePOS(books *fakeBooks) *fakePOS {
	return &fakePOS{books: books, orders: map[int]*models.Order{}, nextID: 1, now: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)}
}

func (f *fakePOS) Open(_ context.Context, staffID int, orderNumber string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.StaffID != nil && *o.StaffID == staffID && o.Status == models.OrderStatusPending {
			return o.ID, nil
		}
	}
	staff := staffID
	o := &models.Order{ID: f.nextID, OrderNumber: orderNumber, StaffID: &staff, Channel: models.ChannelPOS,
		Status: models.OrderStatusPending, Items: []models.OrderItem{}, CreatedAt: f.now, UpdatedAt: f.now}
	f.orders[o.ID] = o
	f.nextID++
	return o.ID, nil
}

func (f *fakePOS) FindOpen(_ context.Context, staffID int) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.StaffID != nil && *o.StaffID == staffID && o.Status == models.OrderStatusPending {
			return f.copyOf(o), nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePOS) copyOf(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem{}, o.Items...)
	return &c
}

func (f *fakePOS) Get(_ context.Context, orderID int) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return f.copyOf(o), nil
}

func (f *fakePOS) AddLine(_ context.Context, orderID int, item models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	for i := range o.Items {
		if o.Items[i].BookID == item.BookID {
			o.Items[i].Quantity += item.Quantity
			o.Items[i].ListPrice, o.Items[i].UnitPrice = item.ListPrice, item.UnitPrice
			return nil
		}
	}
	item.OrderID = orderID
	o.Items = append(o.Items, item)
	return nil
}

func (f *fakePOS) SetLineQuantity(_ context.Context, orderID, bookID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	for i := range o.Items {
		if o.Items[i].BookID == bookID {
			o.Items[i].Quantity = quantity
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakePOS) RemoveLine(_ context.Context, orderID, bookID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	for i := range o.Items {
		if o.Items[i].BookID == bookID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// Recalculate mirrors recalculate_order_totals.
func (f *fakePOS) Recalculate(_ context.Context, orderID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	o.Subtotal, o.DiscountTotal = 0, 0
	for i := range o.Items {
		item := &o.Items[i]
		item.LineTotal = item.UnitPrice * item.Quantity
		o.Subtotal += item.ListPrice * item.Quantity
		o.DiscountTotal += (item.ListPrice - item.UnitPrice) * item.Quantity
	}
	o.Total = o.Subtotal - o.DiscountTotal + o.ShippingFee
	return nil
}

func (f *fakePOS) Finalize(ctx context.Context, orderID, staffID int, paymentType, customerEmail string) (*models.Order, error) {
	f.mu.Lock()
	o := f.orders[orderID]
	if o.Status != models.OrderStatusPending {
		f.mu.Unlock()
		return nil, models.ErrTransactionClosed
	}
	items := append([]models.OrderItem{}, o.Items...)
	f.mu.Unlock()

	for _, item := range items {
		if f.books.stock(item.BookID) < item.Quantity {
			return nil, models.ErrInsufficientStock
		}
	}
	for _, item := range items {
		f.books.AdjustStock(ctx, item.BookID, -item.Quantity)
	}

	f.mu.Lock()
	o.Status = models.OrderStatusCompleted
	o.PaymentType = &paymentType
	o.CustomerEmail = customerEmail
	c := f.copyOf(o)
	f.mu.Unlock()
	return c, nil
}

func (f *fakePOS) Cancel(_ context.Context, orderID, staffID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending || *o.StaffID != staffID {
		return false, nil
	}
	o.Status = models.OrderStatusCancelled
	o.Items = []models.OrderItem{}
	o.Subtotal, o.DiscountTotal, o.Total = 0, 0, 0
	return true, nil
}

type fakeUsers struct {
	mu       sync.Mutex
	users    map[int]*models.User
	profiles map[int]*models.UserProfile
	nextID   int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int]*models.User{}, profiles: map[int]*models.UserProfile{}, nextID: 1}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User, profile *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrEmailTaken
		}
	}
	user.ID = f.nextID
	f.nextID++
	profile.UserID = user.ID
	u, p := *user, *profile
	f.users[user.ID] = &u
	f.profiles[user.ID] = &p
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetUserWithProfile(_ context.Context, userID int) (*models.UserWithProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	p := f.profiles[userID]
	return &models.UserWithProfile{
		ID: u.ID, Email: u.Email, Role: u.Role, FullName: p.FullName, Phone: p.Phone,
		Line: p.Line, City: p.City, PostalCode: p.PostalCode, Country: p.Country,
	}, nil
}

func (f *fakeUsers) List(ctx context.Context, page, limit int, search string) ([]models.UserWithProfile, int, error) {
	out := []models.UserWithProfile{}
	for id := range f.users {
		u, _ := f.GetUserWithProfile(ctx, id)
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) GetProfile(_ context.Context, userID int) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, profile *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *profile
	f.profiles[profile.UserID] = &c
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID int, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].Password = hashedPassword
	return nil
}

func (f *fakeUsers) UpdateEmail(_ context.Context, userID int, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if id != userID && strings.EqualFold(u.Email, email) {
			return models.ErrEmailTaken
		}
	}
	f.users[userID].Email = email
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, userID int, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeMethods struct {
	methods map[int]*models.PaymentMethod
	nextID  int
}

func newFakeMethods() *fakeMethods {
	return &fakeMethods{methods: map[int]*models.PaymentMethod{}, nextID: 1}
}

func (f *fakeMethods) ListByUser(_ context.Context, userID int) ([]models.PaymentMethod, error) {
	out := []models.PaymentMethod{}
	for _, pm := range f.methods {
		if pm.UserID == userID {
			out = append(out, *pm)
		}
	}
	return out, nil
}

func (f *fakeMethods) GetForUser(_ context.Context, userID, id int) (*models.PaymentMethod, error) {
	pm, ok := f.methods[id]
	if !ok || pm.UserID != userID {
		return nil, models.ErrNotFound
	}
	c := *pm
	return &c, nil
}

func (f *fakeMethods) Create(_ context.Context, pm *models.PaymentMethod) error {
	pm.ID = f.nextID
	f.nextID++
	c := *pm
	f.methods[pm.ID] = &c
	return nil
}

func (f *fakeMethods) Delete(_ context.Context, userID, id int) error {
	pm, ok := f.methods[id]
	if !ok || pm.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.methods, id)
	return nil
}

func (f *fakeMethods) SetDefault(_ context.Context, userID, id int) error {
	pm, ok := f.methods[id]
	if !ok || pm.UserID != userID {
		return models.ErrNotFound
	}
	for _, m := range f.methods {
		if m.UserID == userID {
			m.IsDefault = m.ID == id
		}
	}
	return nil
}
