package customer

import "github.com/custreg/backend/internal/domain/shared"

// Registration errors
var (
	// ErrProfileMissing means a profile could not be read back right after it was saved
	ErrProfileMissing = shared.NewDomainError("PROFILE_MISSING", "Profile not found after save")

	// ErrContactMissing means a contact could not be read back right after it was saved
	ErrContactMissing = shared.NewDomainError("CONTACT_MISSING", "Contact not found after save")

	// ErrAddressLookupFailed means the postal code service could not resolve an address
	ErrAddressLookupFailed = shared.NewDomainError("ADDRESS_LOOKUP_FAILED", "Address lookup failed")

	// ErrPostalCodeUnknown means the postal code service does not know the code
	ErrPostalCodeUnknown = shared.NewDomainError("POSTAL_CODE_UNKNOWN", "Postal code not found")
)
