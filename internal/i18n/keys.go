// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError     = "error.internal"
	KeyValidationInvalid = "validation.invalid"
	KeyRateLimited       = "error.rate_limited"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthForbidden    = "auth.forbidden"

	// Ads
	KeyAdCreated           = "ad.created"
	KeyAdUpdated           = "ad.updated"
	KeyAdNotFound          = "ad.not_found"
	KeyAdInvalidID         = "ad.invalid_id"
	KeyAdSubmitted         = "ad.submitted"
	KeyAdApproved          = "ad.approved"
	KeyAdRejected          = "ad.rejected"
	KeyAdActivated         = "ad.activated"
	KeyAdActiveBanners     = "ad.active_banners"
	KeyAdSlotTakenPosition = "ad.slot_taken_position"
	KeyAdSlotTakenType     = "ad.slot_taken_type"
	KeyAdInvalidTransition = "ad.invalid_transition"
	KeyAdModified          = "ad.modified"

	// Pricing
	KeyPricingUpdated = "pricing.updated"

	// Media
	KeyAssetNotFound = "asset.not_found"
)
