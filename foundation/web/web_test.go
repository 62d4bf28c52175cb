package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type sendRequest struct {
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func TestApp(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	app.Handle(http.MethodGet, "v1", "/blocks/page/:id", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return web.NewShutdownError("web value missing from context")
		}

		resp := struct {
			ID      string `json:"id"`
			TraceID string `json:"trace_id"`
		}{
			ID:      web.Param(r, "id"),
			TraceID: v.TraceID,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodPost, "v1", "/transact", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req sendRequest
		if err := web.Decode(r, &req); err != nil {
			return web.Respond(ctx, w, validate.GetFieldErrors(err).Fields(), http.StatusBadRequest)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	})

	app.Handle(http.MethodGet, "", "/integrity", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	t.Log("Given the need to route requests through the application.")
	{
		t.Logf("\tTest 0:\tWhen routing a request with a parameter.")
		{
			r := httptest.NewRequest(http.MethodGet, "/v1/blocks/page/2", nil)
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200 for the response : %v", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200 for the response.", success)

			var resp struct {
				ID      string `json:"id"`
				TraceID string `json:"trace_id"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to unmarshal the response : %v", failed, err)
			}

			if resp.ID != "2" || resp.TraceID == "" {
				t.Fatalf("\t%s\tTest 0:\tShould get the parameter and a trace id : %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 0:\tShould get the parameter and a trace id.", success)

			if strings.Join(order, ",") != "app,route" {
				t.Fatalf("\t%s\tTest 0:\tShould run application middleware first : %v", failed, order)
			}
			t.Logf("\t%s\tTest 0:\tShould run application middleware first.", success)
		}

		t.Logf("\tTest 1:\tWhen decoding an invalid request.")
		{
			r := httptest.NewRequest(http.MethodPost, "/v1/transact", strings.NewReader(`{"to":"","amount":0}`))
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould receive a status code of 400 for the response : %v", failed, w.Code)
			}

			var fields map[string]string
			if err := json.NewDecoder(w.Body).Decode(&fields); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to unmarshal the response : %v", failed, err)
			}
			if _, exists := fields["to"]; !exists {
				t.Fatalf("\t%s\tTest 1:\tShould report the field by its json name : %v", failed, fields)
			}
			if _, exists := fields["amount"]; !exists {
				t.Fatalf("\t%s\tTest 1:\tShould report every failing field : %v", failed, fields)
			}
			t.Logf("\t%s\tTest 1:\tShould report every failing field by its json name.", success)
		}

		t.Logf("\tTest 2:\tWhen a handler reports an integrity issue.")
		{
			r := httptest.NewRequest(http.MethodGet, "/integrity", nil)
			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			select {
			case <-shutdown:
				t.Logf("\t%s\tTest 2:\tShould signal a shutdown.", success)
			default:
				t.Fatalf("\t%s\tTest 2:\tShould signal a shutdown.", failed)
			}
		}
	}
}
