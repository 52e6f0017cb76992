package notify

import (
	"fmt"

	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/service"
)

const fallbackEmail = "customer@example.com"

// DesignParams returns the params builder for design submissions:
// structured sender/recipient fields plus a free-text body synthesized
// from the submission metadata.
func DesignParams(recipientName string) service.ParamsBuilder {
	return func(user domain.User, sub domain.DesignSubmission) map[string]string {
		fromName := user.Username
		if fromName == "" {
			fromName = "Customer"
		}
		fromEmail := user.Email
		if fromEmail == "" {
			fromEmail = fallbackEmail
		}

		details := fmt.Sprintf(
			"New design submission:\n- Colors: %s\n- Quantity: %d\n- Sizes: %s\n- User ID: %s",
			sub.Colors, sub.Quantity, sub.Sizes, user.ID,
		)

		return map[string]string{
			"to_name":        recipientName,
			"from_name":      fromName,
			"from_email":     fromEmail,
			"reply_to":       fromEmail,
			"design_details": details,
		}
	}
}
