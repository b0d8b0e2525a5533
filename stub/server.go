// Package stub hosts an in-memory double of the diagnostics backend. It
// exists for integration tests and offline development: every endpoint the
// order flow touches is served from process-local state, with the same
// envelope shape and the same quirks (duplicate address conflicts, slot
// scarcity, membership expiry dates) the real backend exhibits.
package stub

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labprobe/models"
)

// Options seeds the stub's world.
type Options struct {
	// Catalog is returned, filtered, by the search endpoint.
	Catalog []models.CatalogItem

	// MemberMobiles log in with an unexpired membership.
	MemberMobiles []string

	// CartTotal overrides the computed cart total when non-nil, to simulate
	// backend pricing drift.
	CartTotal *int

	// EmptySlotDays is how many leading dates report zero capacity.
	EmptySlotDays int

	// FailVerifyPayment makes the gateway return an empty verify reply.
	FailVerifyPayment bool

	Locations []string
	Brands    []string
}

type user struct {
	GUID   string
	Mobile string
	Member bool
}

type cart struct {
	GUID  string
	Lines []cartLine
	Slot  string
}

type cartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type payment struct {
	GUID      string
	OrderGUID string
	UserID    string
	Amount    int
	Items     []models.CatalogItem
}

type tracking struct {
	Status     string
	PhleboGUID string
}

// Server is the stub backend.
type Server struct {
	opts Options

	mu        sync.Mutex
	users     map[string]*user // by token
	usersByID map[string]*user
	carts     map[string]*cart // by user guid
	addresses map[string][]gin.H
	payments  map[string]*payment // by payment guid
	orders    map[string]*tracking
}

// New builds a stub server with the given world.
func New(opts Options) *Server {
	if len(opts.Locations) == 0 {
		opts.Locations = []string{"Madhapur"}
	}
	if len(opts.Brands) == 0 {
		opts.Brands = []string{"Diagnostics"}
	}
	return &Server{
		opts:      opts,
		users:     make(map[string]*user),
		usersByID: make(map[string]*user),
		carts:     make(map[string]*cart),
		addresses: make(map[string][]gin.H),
		payments:  make(map[string]*payment),
		orders:    make(map[string]*tracking),
	}
}

// Engine wires the stub's routes into a gin engine.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/otps/getOtp", s.getOTP)
	r.POST("/users/addUser", s.addUser)
	r.GET("/users/getUser/:id", s.getUser)

	r.GET("/tests/getlocations", s.getLocations)
	r.POST("/tests/adminTests", s.searchTests)
	r.GET("/brand/getAllBrands", s.getBrands)

	r.POST("/carts/v2/addCart", s.addCart)
	r.GET("/carts/v2/getCartById/:user_id", s.getCart)

	r.POST("/address/addAddress", s.addAddress)
	r.GET("/address/getAddressByUserId/:user_id", s.getAddresses)

	r.POST("/slot/getCentersByadd", s.getCenters)
	r.POST("/slot/getSlotCountByTime", s.getSlots)

	r.POST("/gateway/v2/CreateOrder", s.createOrder)
	r.POST("/gateway/v2/VerifyPayment", s.verifyPayment)
	r.GET("/gateway/getPaymentById", s.getPayment)

	r.GET("/order/getOrderById/:guid", s.getOrder)

	r.POST("/phlebo/loginPhlebo", s.phleboLogin)
	r.POST("/order_tracking/assignOrder", s.assignOrder)
	r.POST("/order_tracking/updateOrderTracking", s.updateTracking)
	r.GET("/order_tracking/getOrderTrackingStatus/:guid", s.trackingStatus)
	r.POST("/order_tracking/adminVerifyOtp", s.verifyCollectionOTP)
	r.GET("/sample/getSampleType", s.sampleTypes)

	return r
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": "ok", "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "msg": msg, "data": nil})
}

func (s *Server) getOTP(c *gin.Context) {
	ok(c, gin.H{"otp_sent": true})
}

func (s *Server) addUser(c *gin.Context) {
	var req struct {
		Mobile string `json:"mobile"`
		OTP    string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Mobile == "" {
		fail(c, http.StatusBadRequest, "mobile required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user{GUID: "user-" + req.Mobile, Mobile: req.Mobile}
	for _, m := range s.opts.MemberMobiles {
		if m == req.Mobile {
			u.Member = true
		}
	}
	token := "tok-" + uuid.New().String()
	s.users[token] = u
	s.usersByID[u.GUID] = u

	ok(c, gin.H{"token": token, "guid": u.GUID, "first_name": "Stub", "last_name": "User", "mobile": req.Mobile})
}

func (s *Server) getUser(c *gin.Context) {
	s.mu.Lock()
	u := s.usersByID[c.Param("id")]
	s.mu.Unlock()
	if u == nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	expiry := ""
	if u.Member {
		expiry = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	}
	ok(c, gin.H{"guid": u.GUID, "first_name": "Stub", "membership_expiry_date": expiry})
}

func (s *Server) getLocations(c *gin.Context) {
	out := make([]gin.H, 0, len(s.opts.Locations))
	for i, name := range s.opts.Locations {
		out = append(out, gin.H{"guid": fmt.Sprintf("loc-%d", i+1), "name": name, "city": "Hyderabad"})
	}
	ok(c, out)
}

func (s *Server) getBrands(c *gin.Context) {
	out := make([]gin.H, 0, len(s.opts.Brands))
	for i, name := range s.opts.Brands {
		out = append(out, gin.H{"guid": fmt.Sprintf("brand-%d", i+1), "name": name})
	}
	ok(c, out)
}

func (s *Server) searchTests(c *gin.Context) {
	var req struct {
		Search string `json:"search"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad search")
		return
	}
	want := strings.ToLower(strings.Join(strings.Fields(req.Search), " "))
	var hits []models.CatalogItem
	for _, item := range s.opts.Catalog {
		got := strings.ToLower(strings.Join(strings.Fields(item.DisplayName()), " "))
		if strings.Contains(got, want) || strings.Contains(want, got) {
			hits = append(hits, item)
		}
	}
	ok(c, hits)
}

func (s *Server) addCart(c *gin.Context) {
	var req struct {
		UserID   string     `json:"user_id"`
		SlotGUID string     `json:"slot_guid"`
		Lines    []cartLine `json:"product_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		fail(c, http.StatusBadRequest, "user_id required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ct := s.carts[req.UserID]
	if ct == nil {
		ct = &cart{GUID: "cart-" + req.UserID}
		s.carts[req.UserID] = ct
	}
	if req.Lines != nil || req.SlotGUID == "" {
		ct.Lines = req.Lines
	}
	if req.SlotGUID != "" {
		ct.Slot = req.SlotGUID
	}
	ok(c, gin.H{"guid": ct.GUID})
}

func (s *Server) getCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ct := s.carts[c.Param("user_id")]
	if ct == nil {
		fail(c, http.StatusNotFound, "no cart")
		return
	}
	u := s.usersByID[c.Param("user_id")]
	member := u != nil && u.Member

	lines := make([]gin.H, 0, len(ct.Lines))
	subtotal := 0
	for _, line := range ct.Lines {
		item, found := s.catalogByID(line.ProductID)
		if !found {
			continue
		}
		lines = append(lines, gin.H{
			"product_id":      item.ProductID,
			"test_name":       item.DisplayName(),
			"price":           item.Price.Int(),
			"original_price":  item.OriginalPrice.Int(),
			"membershipPrice": item.MembershipPrice.Int(),
			"discount_rate":   item.DiscountRate.Int(),
			"quantity":        line.Quantity,
			"home_collection": item.HomeCollection.Bool(),
		})
		if item.HomeCollection.Bool() && line.Quantity > 0 {
			subtotal += unitPrice(item, member) * line.Quantity
		}
	}

	fee := 0
	if !member && subtotal < 999 {
		fee = 250
	}
	total := subtotal + fee
	if s.opts.CartTotal != nil {
		total = *s.opts.CartTotal
	}

	doc := gin.H{
		"guid":            ct.GUID,
		"user_id":         c.Param("user_id"),
		"totalPrice":      total,
		"delivery_fee":    fee,
		"order_type":      "home",
		"product_details": lines,
	}
	if member {
		doc["membership_id"] = "mem-" + c.Param("user_id")
	}
	ok(c, doc)
}

// unitPrice applies the production pricing rules: members pay the lower of the
// two member price fields, falling back to a flat 10% discount, while everyone
// else pays the list price.
func unitPrice(item models.CatalogItem, member bool) int {
	base := item.Price.Int()
	if base <= 0 {
		base = item.OriginalPrice.Int()
	}
	if !member {
		return base
	}
	rate := item.DiscountRate.Int()
	mp := item.MembershipPrice.Int()
	switch {
	case rate > 0 && mp > 0:
		if mp < rate {
			return mp
		}
		return rate
	case rate > 0:
		return rate
	case mp > 0:
		return mp
	default:
		return base * 9 / 10
	}
}

func (s *Server) catalogByID(id string) (models.CatalogItem, bool) {
	for _, item := range s.opts.Catalog {
		if item.ProductID == id {
			return item, true
		}
	}
	return models.CatalogItem{}, false
}

func (s *Server) addAddress(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad address")
		return
	}
	userID := req["user_id"]

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, saved := range s.addresses[userID] {
		if saved["name"] == req["name"] {
			fail(c, http.StatusConflict, "address already exists")
			return
		}
	}
	addr := gin.H{
		"id":   fmt.Sprintf("%d", len(s.addresses[userID])+1),
		"guid": "addr-" + uuid.New().String(),
		"name": req["name"],
		"lat":  req["lat"],
		"lng":  req["lng"],
	}
	s.addresses[userID] = append(s.addresses[userID], addr)
	ok(c, addr)
}

func (s *Server) getAddresses(c *gin.Context) {
	s.mu.Lock()
	addrs := s.addresses[c.Param("user_id")]
	s.mu.Unlock()
	ok(c, addrs)
}

func (s *Server) getCenters(c *gin.Context) {
	ok(c, []gin.H{{"guid": "center-1", "name": "Madhapur Center"}})
}

func (s *Server) getSlots(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad slot query")
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad date")
		return
	}
	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	offset := int(day.Sub(today).Hours() / 24)
	if offset < s.opts.EmptySlotDays {
		ok(c, []gin.H{})
		return
	}
	ok(c, []gin.H{{
		"guid":      "slot-" + req.Date,
		"date":      req.Date,
		"starttime": "07:00",
		"endtime":   "08:00",
		"count":     3,
	}})
}

func (s *Server) createOrder(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id"`
		Amount int    `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad order")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &payment{
		GUID:      "pay-" + uuid.New().String(),
		OrderGUID: "ord-" + uuid.New().String(),
		UserID:    req.UserID,
		Amount:    req.Amount,
	}
	if ct := s.carts[req.UserID]; ct != nil {
		for _, line := range ct.Lines {
			if item, found := s.catalogByID(line.ProductID); found {
				p.Items = append(p.Items, item)
			}
		}
	}
	s.payments[p.GUID] = p
	s.orders[p.OrderGUID] = &tracking{Status: "Created"}
	ok(c, gin.H{"payment_guid": p.GUID, "order_guid": p.OrderGUID})
}

func (s *Server) verifyPayment(c *gin.Context) {
	if s.opts.FailVerifyPayment {
		ok(c, nil)
		return
	}
	var req struct {
		PaymentGUID string `json:"payment_guid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad verify")
		return
	}

	s.mu.Lock()
	p := s.payments[req.PaymentGUID]
	s.mu.Unlock()
	if p == nil {
		ok(c, nil)
		return
	}
	ok(c, gin.H{"payment_guid": p.GUID, "order_guid": p.OrderGUID})
}

func (s *Server) getPayment(c *gin.Context) {
	s.mu.Lock()
	p := s.payments[c.Query("payment_guid")]
	s.mu.Unlock()
	if p == nil {
		fail(c, http.StatusNotFound, "payment not found")
		return
	}

	items := make([]gin.H, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, gin.H{
			"product_id":   item.ProductID,
			"product_name": item.DisplayName(),
			"final_price":  item.Price.Int(),
			"quantity":     1,
		})
	}
	ok(c, gin.H{
		"guid":           p.GUID,
		"order_guid":     p.OrderGUID,
		"amount":         p.Amount,
		"net_payable":    p.Amount,
		"payment_type":   "COD",
		"payment_status": "Pending",
		"order_items":    items,
	})
}

func (s *Server) getOrder(c *gin.Context) {
	s.mu.Lock()
	t := s.orders[c.Param("guid")]
	s.mu.Unlock()
	if t == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, gin.H{
		"guid":        c.Param("guid"),
		"status":      t.Status,
		"phlebo_guid": t.PhleboGUID,
	})
}

func (s *Server) phleboLogin(c *gin.Context) {
	ok(c, gin.H{"token": "tok-phlebo", "guid": "phlebo-1"})
}

func (s *Server) assignOrder(c *gin.Context) {
	var req struct {
		OrderGUID  string `json:"order_guid"`
		PhleboGUID string `json:"phlebo_guid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad assignment")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.orders[req.OrderGUID]
	if t == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	t.Status = "Phlebotomist Assigned"
	t.PhleboGUID = req.PhleboGUID
	ok(c, gin.H{"updatedOrder": gin.H{
		"guid":        "trk-" + req.OrderGUID,
		"order_guid":  req.OrderGUID,
		"status":      t.Status,
		"phlebo_guid": t.PhleboGUID,
	}})
}

func (s *Server) updateTracking(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.orders[req["order_guid"]]
	if t == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}

	// Orders only move forward through their lifecycle.
	next := models.NormalizeStatus(req["status"])
	cur := models.NormalizeStatus(t.Status)
	if next.Known() && cur.Known() && cur != next && cur.AtLeast(next) {
		fail(c, http.StatusBadRequest, "status regression")
		return
	}

	t.Status = req["status"]
	ok(c, gin.H{"updated": true})
}

// OrderStatuses snapshots the raw status string of every tracked order, as
// last posted by a client. Tests use it to check the exact wire form.
func (s *Server) OrderStatuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses := make([]string, 0, len(s.orders))
	for _, t := range s.orders {
		statuses = append(statuses, t.Status)
	}
	return statuses
}

func (s *Server) trackingStatus(c *gin.Context) {
	s.mu.Lock()
	t := s.orders[c.Param("guid")]
	s.mu.Unlock()
	if t == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, gin.H{
		"guid":        "trk-" + c.Param("guid"),
		"order_guid":  c.Param("guid"),
		"status":      t.Status,
		"phlebo_guid": t.PhleboGUID,
	})
}

func (s *Server) verifyCollectionOTP(c *gin.Context) {
	var req struct {
		OrderGUID string `json:"order_guid"`
		OTP       string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bad otp request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.orders[req.OrderGUID]
	if t == nil {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	t.Status = "OTP Verified"
	ok(c, gin.H{"verified": true})
}

func (s *Server) sampleTypes(c *gin.Context) {
	ok(c, []gin.H{
		{"guid": "st-1", "name": "EDTA"},
		{"guid": "st-2", "name": "Serum"},
		{"guid": "st-3", "name": "Urine"},
	})
}
