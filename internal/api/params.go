package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// idBody es la forma en que el cliente web envía el id en PUT/DELETE sin ruta.
type idBody struct {
	ID     json.RawMessage `json:"id"`
	Cedula string          `json:"cedula"`
}

func (b idBody) value() string {
	if b.Cedula != "" {
		return strings.TrimSpace(b.Cedula)
	}
	if len(b.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.ID, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(b.ID, &n); err == nil {
		return n.String()
	}
	return ""
}

// pathOrBodyID toma {id} de la ruta o, si falta, de body.
func pathOrBodyID(r *http.Request, body idBody) string {
	if v := strings.TrimSpace(mux.Vars(r)["id"]); v != "" {
		return v
	}
	return body.value()
}

func parseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// readBodyRaw lee el cuerpo completo; vacío devuelve nil sin error.
func readBodyRaw(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var raw json.RawMessage
	if r.Body == nil || r.ContentLength == 0 {
		return nil, true
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return nil, false
	}
	return raw, true
}
