package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/testutil"
)

func TestAdminHandler_UserApproval(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().
		WithDisplayName("approver").
		AsAdmin().
		BuildAndAuthenticate(t, ts)

	pending, _ := testutil.NewUserBuilder().
		WithDisplayName("applicant").
		WithStatus(domain.ApprovalPending).
		Build(t, ts.DB.DB)

	t.Run("pending users are listed", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "GET", ts.APIURL("/admin/users/pending"), adminToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Success bool `json:"success"`
			Users   []struct {
				ID          string `json:"id"`
				DisplayName string `json:"displayName"`
			} `json:"users"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		require.Len(t, result.Users, 1)
		assert.Equal(t, pending.ID.String(), result.Users[0].ID)
	})

	t.Run("approval moves the user out of the queue", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/users/"+pending.ID.String()+"/status"), adminToken, map[string]string{
			"status": string(domain.ApprovalApproved),
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		listResp := testutil.AuthedRequest(t, "GET", ts.APIURL("/admin/users/pending"), adminToken, nil)
		defer listResp.Body.Close()

		var result struct {
			Success bool          `json:"success"`
			Users   []interface{} `json:"users"`
		}
		testutil.AssertJSONResponse(t, listResp, &result)
		assert.Empty(t, result.Users)
	})

	t.Run("status other than approved or rejected is invalid", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/users/"+pending.ID.String()+"/status"), adminToken, map[string]string{
			"status": "banished",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/users/6a0b46a2-0000-0000-0000-000000000000/status"), adminToken, map[string]string{
			"status": string(domain.ApprovalRejected),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAdminHandler_CatalogAuthoring(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().
		WithDisplayName("curator").
		AsAdmin().
		BuildAndAuthenticate(t, ts)
	_, playerToken := testutil.NewUserBuilder().
		WithDisplayName("bystander").
		BuildAndAuthenticate(t, ts)

	t.Run("items are created unpublished and hidden from the shop", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/items"), adminToken, map[string]interface{}{
			"name":  "vial of mist",
			"type":  string(domain.ItemTypeConsumable),
			"price": 25,
			"effects": []map[string]interface{}{
				{"kind": "heal", "value": 15, "probability": 100},
			},
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var created struct {
			Success bool `json:"success"`
			Item    struct {
				ID        string `json:"id"`
				Published bool   `json:"published"`
			} `json:"item"`
		}
		testutil.AssertJSONResponse(t, resp, &created)
		assert.False(t, created.Item.Published)

		shopResp := testutil.AuthedRequest(t, "GET", ts.APIURL("/items"), playerToken, nil)
		defer shopResp.Body.Close()

		var shop struct {
			Success bool          `json:"success"`
			Items   []interface{} `json:"items"`
		}
		testutil.AssertJSONResponse(t, shopResp, &shop)
		assert.Empty(t, shop.Items)

		pubResp := testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/items/"+created.Item.ID+"/publish"), adminToken, map[string]bool{
			"published": true,
		})
		defer pubResp.Body.Close()
		require.Equal(t, http.StatusOK, pubResp.StatusCode)

		shopResp = testutil.AuthedRequest(t, "GET", ts.APIURL("/items"), playerToken, nil)
		defer shopResp.Body.Close()
		testutil.AssertJSONResponse(t, shopResp, &shop)
		assert.Len(t, shop.Items, 1)
	})

	t.Run("automatic titles require a trigger", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/titles"), adminToken, map[string]interface{}{
			"name":   "Nameless",
			"manual": false,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("players cannot author the catalog", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/items"), playerToken, map[string]interface{}{
			"name": "smuggled item",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAdminHandler_RewardDistribution(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().
		WithDisplayName("paymaster").
		AsAdmin().
		BuildAndAuthenticate(t, ts)
	target, _ := testutil.NewUserBuilder().
		WithDisplayName("recipient").
		Build(t, ts.DB.DB)

	t.Run("explicit targets receive the bundle", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/rewards/distribute"), adminToken, map[string]interface{}{
			"userIds":     []string{target.ID.String()},
			"honor":       15,
			"description": "event payout",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Success   bool     `json:"success"`
			Processed int      `json:"processed"`
			Users     []string `json:"users"`
		}
		testutil.AssertJSONResponse(t, resp, &result)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, []string{target.ID.String()}, result.Users)
	})

	t.Run("malformed target IDs are rejected", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/rewards/distribute"), adminToken, map[string]interface{}{
			"userIds": []string{"not-a-uuid"},
			"honor":   15,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
