package dto

// StartActivationRequest is posted by the checkout return page. Missing fields are
// not rejected here; the attempt itself fails so the page can show why.
type StartActivationRequest struct {
	Plan              string `json:"plan"`
	ProviderPaymentID string `json:"providerPaymentId"`
}

// CheckoutRequest opens a checkout for a paid plan.
type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// VerifyPaymentRequest is the body of the verification function. The user is taken
// from the access token, never from the body.
type VerifyPaymentRequest struct {
	ProviderPaymentID string `json:"providerPaymentId" binding:"required"`
	Plan              string `json:"plan" binding:"required"`
}

// ListNotificationsQuery filters the notification list.
type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread"`
}
