package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/agent"
	"github.com/admesh-io/admesh/bus"
	"github.com/admesh-io/admesh/connector"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/messagelog"
	"github.com/admesh-io/admesh/registry"
)

type echoAgent struct {
	id string
}

func (e *echoAgent) Info() core.AgentInfo {
	return core.AgentInfo{ID: e.id, Name: e.id}
}

func (e *echoAgent) SendMessage(string, string, core.MessageType, map[string]any) *core.Message {
	return nil
}

func (e *echoAgent) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	return "echo: " + query, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := registry.New()
	mb := bus.New(messagelog.NewInMemoryLog())
	require.NoError(t, reg.Register(&echoAgent{id: agent.AnalystID}))
	require.NoError(t, reg.Register(&echoAgent{id: agent.TraderID}))

	router := agent.NewRouter(reg, mb, func(o *agent.RouterOptions) {
		o.Logger = logging.NoOpLogger{}
	})
	return New(router, reg, mb, func(o *Options) {
		o.Logger = logging.NoOpLogger{}
	})
}

func TestServer_Query(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(QueryRequest{Query: "how are campaigns pacing?"})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp agent.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, agent.AnalystID, resp.PrimaryAgent)
	assert.Equal(t, "echo: how are campaigns pacing?", resp.Result)
}

func TestServer_QueryCollaborative(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(QueryRequest{Query: "ctr dropped hard", Collaborative: true})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp agent.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.CollaboratingAgents, agent.TraderID)
}

func TestServer_QueryRequiresBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_QueryUnknownAgent(t *testing.T) {
	reg := registry.New()
	mb := bus.New(messagelog.NewInMemoryLog())
	router := agent.NewRouter(reg, mb, func(o *agent.RouterOptions) {
		o.Logger = logging.NoOpLogger{}
	})
	s := New(router, reg, mb, func(o *Options) { o.Logger = logging.NoOpLogger{} })

	body, _ := json.Marshal(QueryRequest{Query: "anything"})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Agents(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/agents", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Agents []core.AgentInfo `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Agents, 2)
}

func TestServer_Messages(t *testing.T) {
	s := newTestServer(t)

	// run a collaborative query so the bus records traffic
	body, _ := json.Marshal(QueryRequest{Query: "ctr dropped hard", Collaborative: true})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []core.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Messages)
}

func TestServer_MessagesLimit(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(QueryRequest{Query: "ctr dropped hard", Collaborative: true})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/v1/messages?limit=1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []core.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 1)

	req = httptest.NewRequest(http.MethodGet, "/v1/messages?limit=nope", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_QueryEnrichment(t *testing.T) {
	reg := registry.New()
	mb := bus.New(messagelog.NewInMemoryLog())
	require.NoError(t, reg.Register(agent.NewAnalyst(func(o *agent.Options) {
		o.Bus = mb
		o.Logger = logging.NoOpLogger{}
	})))

	router := agent.NewRouter(reg, mb, func(o *agent.RouterOptions) {
		o.Logger = logging.NoOpLogger{}
	})

	static := connector.NewStatic("meta",
		[]core.Campaign{{ID: "c1", Platform: "meta", Status: core.CampaignStatusActive}},
		nil,
	)
	aggregator := connector.NewAggregator([]connector.Connector{static}, func(o *connector.AggregatorOptions) {
		o.Logger = logging.NoOpLogger{}
	})

	s := New(router, reg, mb, func(o *Options) {
		o.Aggregator = aggregator
		o.Logger = logging.NoOpLogger{}
	})

	body, _ := json.Marshal(QueryRequest{Query: "how are the campaigns performing?"})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result struct {
			Campaigns int `json:"campaigns"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Result.Campaigns)
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
