package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zxrrcpandey/rahulops/internal/model"
)

func TestRender_SubscriptionExpiring(t *testing.T) {
	msg, err := Render(model.NotifySubscriptionExpiring, map[string]string{
		"site_name":   "acme.example.com",
		"client_name": "Acme Corp",
		"days_left":   "3",
		"expiry_date": "2026-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Subscription expiring soon - acme.example.com", msg.Subject)
	assert.Contains(t, msg.Body, "Dear Acme Corp")
	assert.Contains(t, msg.Body, "expire in 3 days on 2026-09-01")
}

func TestRender_DeploymentSuccessIncludesCredentials(t *testing.T) {
	msg, err := Render(model.NotifyDeploymentSuccess, map[string]string{
		"site_name":      "acme.example.com",
		"admin_user":     "Administrator",
		"admin_password": "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Username: Administrator")
	assert.Contains(t, msg.Body, "Password: s3cret-pass")
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Render("no_such_kind", nil)
	require.Error(t, err)
}

func TestRender_MissingPlaceholderLeftIntact(t *testing.T) {
	msg, err := Render(model.NotifyHostAlert, map[string]string{"host_name": "web-01"})
	require.NoError(t, err)
	assert.Contains(t, msg.Subject, "web-01")
	assert.Contains(t, msg.Body, "{{status}}")
}

func TestRender_AllModelKindsHaveTemplates(t *testing.T) {
	for _, kind := range []string{
		model.NotifyDeploymentSuccess,
		model.NotifyDeploymentFailed,
		model.NotifySubscriptionExpiring,
		model.NotifySiteSuspended,
		model.NotifySiteReactivated,
		model.NotifyHostAlert,
	} {
		_, err := Render(kind, nil)
		assert.NoError(t, err, kind)
	}
}
