package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jfburr/metabase/dimension"
	"github.com/jfburr/metabase/mbql"
	"github.com/jfburr/metabase/metadata"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey string

const requestIDKey ctxKey = "request-id"

// ParseRequest carries one untyped expression in its JSON wire form.
type ParseRequest struct {
	Expression json.RawMessage `json:"expression"`
}

// ParseResponse describes the typed dimension an expression resolved to.
type ParseResponse struct {
	Variant     string              `json:"variant"`
	Canonical   mbql.Clause         `json:"canonical"`
	DisplayName string              `json:"display_name"`
	ColumnName  string              `json:"column_name,omitempty"`
	Icon        string              `json:"icon"`
	Column      metadata.Column     `json:"column"`
	Render      []dimension.Segment `json:"render"`
}

// OptionsResponse lists the sub-dimensions derivable from an expression.
type OptionsResponse struct {
	Default *SubDimension  `json:"default,omitempty"`
	Options []SubDimension `json:"options"`
}

type SubDimension struct {
	Canonical      mbql.Clause `json:"canonical"`
	SubDisplayName string      `json:"sub_display_name,omitempty"`
	SubTrigger     string      `json:"sub_trigger_display_name,omitempty"`
}

type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

func (e Error) Error() string { return e.Message }

func (c *Core) handleStatus(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Core) handleParse(w http.ResponseWriter, r *http.Request) {
	d := c.decodeDimension(w, r)
	if d == nil {
		return
	}
	c.respond(w, r, http.StatusOK, ParseResponse{
		Variant:     string(d.Variant()),
		Canonical:   d.Clause(),
		DisplayName: d.DisplayName(),
		ColumnName:  d.ColumnName(),
		Icon:        d.Icon(),
		Column:      d.Column(),
		Render:      d.Render(),
	})
}

func (c *Core) handleOptions(w http.ResponseWriter, r *http.Request) {
	d := c.decodeDimension(w, r)
	if d == nil {
		return
	}
	resp := OptionsResponse{Options: []SubDimension{}}
	if def := dimension.DefaultDimension(d); def != nil {
		resp.Default = &SubDimension{
			Canonical:      def.Clause(),
			SubDisplayName: def.SubDisplayName(),
			SubTrigger:     def.SubTriggerDisplayName(),
		}
	}
	for _, sub := range dimension.SubDimensions(d) {
		resp.Options = append(resp.Options, SubDimension{
			Canonical:      sub.Clause(),
			SubDisplayName: sub.SubDisplayName(),
			SubTrigger:     sub.SubTriggerDisplayName(),
		})
	}
	c.respond(w, r, http.StatusOK, resp)
}

// decodeDimension reads the request body and parses its expression, writing
// the appropriate error response and returning nil when it cannot.
func (c *Core) decodeDimension(w http.ResponseWriter, r *http.Request) dimension.Dimension {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.respondError(w, r, http.StatusBadRequest, Error{Kind: "invalid-request", Message: err.Error()})
		return nil
	}
	expr, err := mbql.ParseJSON(req.Expression)
	if err != nil {
		c.respondError(w, r, http.StatusBadRequest, Error{Kind: "invalid-expression", Message: err.Error()})
		return nil
	}
	d := dimension.Parse(expr, c.md, c.qc)
	if d == nil {
		c.respondError(w, r, http.StatusUnprocessableEntity, Error{
			Kind:    "unrecognized-expression",
			Message: "expression does not match any dimension grammar",
		})
		return nil
	}
	return d
}

func (c *Core) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("response encode failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
	}
}

func (c *Core) respondError(w http.ResponseWriter, r *http.Request, status int, e Error) {
	c.respond(w, r, status, e)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *Core) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		c.logger.Info("request",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		return v.(string)
	}
	return ""
}
