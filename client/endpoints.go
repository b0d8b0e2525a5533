package client

// Relative API paths on the diagnostics backend. Paths ending in a slash or
// with a {param} segment are completed by the callers.
const (
	PathGetOTP          = "/otps/getOtp"
	PathAddUser         = "/users/addUser"
	PathGetUser         = "/users/getUser/"
	PathGetLocations    = "/tests/getlocations"
	PathAdminTests      = "/tests/adminTests"
	PathGetAllBrands    = "/brand/getAllBrands"
	PathAddCart         = "/carts/v2/addCart"
	PathGetCartByID     = "/carts/v2/getCartById/"
	PathAddAddress      = "/address/addAddress"
	PathAddressByUser   = "/address/getAddressByUserId/"
	PathCentersByAddr   = "/slot/getCentersByadd"
	PathSlotCountByTime = "/slot/getSlotCountByTime"
	PathCreateOrder     = "/gateway/v2/CreateOrder"
	PathVerifyPayment   = "/gateway/v2/VerifyPayment"
	PathGetPaymentByID  = "/gateway/getPaymentById"
	PathGetOrderByID    = "/order/getOrderById/"
	PathPhleboLogin     = "/phlebo/loginPhlebo"
	PathAssignOrder     = "/order_tracking/assignOrder"
	PathUpdateTracking  = "/order_tracking/updateOrderTracking"
	PathTrackingStatus  = "/order_tracking/getOrderTrackingStatus/"
	PathAdminVerifyOTP  = "/order_tracking/adminVerifyOtp"
	PathSampleTypes     = "/sample/getSampleType"
)
