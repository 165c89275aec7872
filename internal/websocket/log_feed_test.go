package websocket_test

import (
	"net/http"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeluhq/terminal-server/internal/domain"
	"github.com/yeluhq/terminal-server/internal/testutil"
)

const defaultTimeout = 5 * time.Second

func TestLogFeed_AttackBroadcast(t *testing.T) {
	ts := testutil.NewTestServer(t)

	player, playerToken := testutil.NewUserBuilder().
		WithDisplayName("raider").
		BuildAndAuthenticate(t, ts)
	_, watcherToken := testutil.NewUserBuilder().
		WithDisplayName("spectator").
		BuildAndAuthenticate(t, ts)

	encounter := testutil.NewEncounterBuilder(player.ID).
		WithMonster("Gatekeeper", 300, "2+1d6").
		Build(t, ts.DB.DB)
	monsterID := encounter.Monsters.Data()[0].ID

	watcher := testutil.NewWSClient(t, ts.WebSocketURL(watcherToken))
	watcher.Subscribe(encounter.ID.String())

	// subscription registration races the attack without a short settle
	time.Sleep(100 * time.Millisecond)

	resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+encounter.ID.String()+"/attack"), playerToken, map[string]string{
		"monsterId": monsterID,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entry := watcher.ExpectCombatLog(defaultTimeout)
	assert.Equal(t, encounter.ID, entry.EncounterID)
	assert.Equal(t, player.ID, entry.ActorID)
	assert.Equal(t, domain.LogPlayerAttack, entry.Type)
	assert.Greater(t, entry.Damage, 0)
	assert.Contains(t, entry.Message, "Gatekeeper")
}

func TestLogFeed_SubscriptionScoping(t *testing.T) {
	ts := testutil.NewTestServer(t)

	player, playerToken := testutil.NewUserBuilder().
		WithDisplayName("raider").
		BuildAndAuthenticate(t, ts)
	_, watcherToken := testutil.NewUserBuilder().
		WithDisplayName("spectator").
		BuildAndAuthenticate(t, ts)

	active := testutil.NewEncounterBuilder(player.ID).
		WithMonster("Gatekeeper", 300, "2+1d6").
		Build(t, ts.DB.DB)
	other := testutil.NewEncounterBuilder(player.ID).Build(t, ts.DB.DB)
	monsterID := active.Monsters.Data()[0].ID

	watcher := testutil.NewWSClient(t, ts.WebSocketURL(watcherToken))
	watcher.Subscribe(other.ID.String())
	time.Sleep(100 * time.Millisecond)

	resp := testutil.AuthedRequest(t, "POST", ts.APIURL("/encounters/"+active.ID.String()+"/attack"), playerToken, map[string]string{
		"monsterId": monsterID,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// the watcher follows a different battle and must hear nothing
	watcher.ExpectNoMessage(500 * time.Millisecond)
}

func TestLogFeed_RejectsAnonymousConnections(t *testing.T) {
	ts := testutil.NewTestServer(t)

	conn, resp, err := gorillaWS.DefaultDialer.Dial(ts.WebSocketURL(""), nil)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
