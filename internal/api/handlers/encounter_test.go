package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/testutil"
)

type encounterEnvelope struct {
	Success   bool `json:"success"`
	Encounter struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
		Turn   int    `json:"turn"`
		Monsters []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			HP   int    `json:"hp"`
		} `json:"monsters"`
		Participants map[string]struct {
			RoleName string `json:"roleName"`
			HP       int    `json:"hp"`
		} `json:"participants"`
	} `json:"encounter"`
}

func TestEncounterHandler_BattleFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, adminToken := testutil.NewUserBuilder().
		WithDisplayName("battleadmin").
		AsAdmin().
		BuildAndAuthenticate(t, ts)
	player, playerToken := testutil.NewUserBuilder().
		WithDisplayName("battleplayer").
		BuildAndAuthenticate(t, ts)

	// admin opens the encounter
	resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/encounters"), adminToken, map[string]interface{}{
		"name": "sewer raid",
		"monsters": []map[string]interface{}{
			{"name": "Rat King", "hp": 200, "atkFormula": "2+1d4"},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created encounterEnvelope
	testutil.AssertJSONResponse(t, resp, &created)
	require.Len(t, created.Encounter.Monsters, 1)
	encounterID := created.Encounter.ID
	monsterID := created.Encounter.Monsters[0].ID
	assert.Equal(t, string(domain.EncounterPreparing), created.Encounter.Status)

	t.Run("attack before activation is rejected", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+encounterID+"/attack"), playerToken, map[string]string{
			"monsterId": monsterID,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	resp = testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/encounters/"+encounterID+"/status"), adminToken, map[string]string{
		"status": string(domain.EncounterActive),
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("player joins and attacks", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+encounterID+"/join"), playerToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var joined encounterEnvelope
		testutil.AssertJSONResponse(t, resp, &joined)
		assert.Contains(t, joined.Encounter.Participants, player.ID.String())

		attackResp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+encounterID+"/attack"), playerToken, map[string]string{
			"monsterId": monsterID,
		})
		defer attackResp.Body.Close()
		require.Equal(t, http.StatusOK, attackResp.StatusCode)

		var attack struct {
			Success       bool `json:"success"`
			Damage        int  `json:"damage"`
			CounterDamage int  `json:"counterDamage"`
			Encounter     struct {
				Monsters []struct {
					HP int `json:"hp"`
				} `json:"monsters"`
			} `json:"encounter"`
		}
		testutil.AssertJSONResponse(t, attackResp, &attack)
		assert.True(t, attack.Success)
		assert.Greater(t, attack.Damage, 0)
		assert.Greater(t, attack.CounterDamage, 0)
		assert.Equal(t, 200-attack.Damage, attack.Encounter.Monsters[0].HP)
	})

	t.Run("combat logs are queryable", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "GET", ts.APIURL("/encounters/"+encounterID+"/logs"), playerToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var logs struct {
			Success bool `json:"success"`
			Logs    []struct {
				Type    string `json:"type"`
				Message string `json:"message"`
				Damage  int    `json:"damage"`
			} `json:"logs"`
		}
		testutil.AssertJSONResponse(t, resp, &logs)
		require.NotEmpty(t, logs.Logs)
		assert.Equal(t, string(domain.LogPlayerAttack), logs.Logs[0].Type)
	})

	t.Run("attack on unknown monster is not found", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+encounterID+"/attack"), playerToken, map[string]string{
			"monsterId": "no-such-monster",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lifecycle cannot move backwards", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "PUT", ts.APIURL("/admin/encounters/"+encounterID+"/status"), adminToken, map[string]string{
			"status": string(domain.EncounterPreparing),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestEncounterHandler_AdminOnly(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, playerToken := testutil.NewUserBuilder().
		WithDisplayName("regularplayer").
		BuildAndAuthenticate(t, ts)

	t.Run("players cannot create encounters", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/admin/encounters"), playerToken, map[string]interface{}{
			"name": "forbidden raid",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("players can browse encounters", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "GET", ts.APIURL("/encounters"), playerToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		resp := testutil.AuthedRequest(t, "GET", ts.APIURL("/encounters"), "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
