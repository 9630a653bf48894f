package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/Strob0t/basenames/internal/domain/basename"
	"github.com/Strob0t/basenames/internal/domain/collection"
	"github.com/Strob0t/basenames/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Checker       *AvailabilityChecker
	Registrations *service.RegistrationService
	Collections   *service.CollectionService
	SecureCookies bool
}

// GetAvailability handles GET /api/v1/names/{name}/availability.
// Rejected names still answer 200 with the reason in the body.
func (h *Handlers) GetAvailability(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Checker.Check(r.Context(), urlParam(r, "name")))
}

type namehashResponse struct {
	Name string `json:"name"`
	Node string `json:"node"`
}

// GetNamehash handles GET /api/v1/names/{name}/namehash.
func (h *Handlers) GetNamehash(w http.ResponseWriter, r *http.Request) {
	name, err := basename.Validate(urlParam(r, "name"))
	if err != nil {
		writeDomainError(w, err, "")
		return
	}
	full := name.FullName()
	writeJSON(w, http.StatusOK, namehashResponse{Name: full, Node: basename.Namehash(full).Hex()})
}

type registerRequest struct {
	Owner string `json:"owner"`
}

// RegisterName handles POST /api/v1/names/{name}/registrations.
// The body is always a RegistrationResult; the status reflects the failure kind.
func (h *Handlers) RegisterName(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[registerRequest](w, r)
	if !ok {
		return
	}
	res, err := h.Registrations.Register(r.Context(), urlParam(r, "name"), req.Owner)
	if err != nil {
		writeJSON(w, statusFor(err), res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListRegistrations handles GET /api/v1/registrations?owner=0x….
func (h *Handlers) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	handleListByQuery("owner", h.Registrations.History)(w, r)
}

// CreateCollection handles POST /api/v1/collections.
func (h *Handlers) CreateCollection(w http.ResponseWriter, r *http.Request) {
	handleCreate(h.Collections.CreateCollection)(w, r)
}

// GetCollection handles GET /api/v1/collections/{address}.
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	handleGet("address", h.Collections.Get, "collection not found")(w, r)
}

type mintRequest struct {
	To string `json:"to"`
}

// MintToken handles POST /api/v1/collections/{address}/mint.
func (h *Handlers) MintToken(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[mintRequest](w, r)
	if !ok {
		return
	}
	res, err := h.Collections.Mint(r.Context(), urlParam(r, "address"), req.To)
	if err != nil {
		writeDomainError(w, err, "collection not found")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type balanceResponse struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Balance int    `json:"balance"`
}

// GetBalance handles GET /api/v1/collections/{address}/balance?owner=0x….
func (h *Handlers) GetBalance(w http.ResponseWriter, r *http.Request) {
	address := urlParam(r, "address")
	owner := r.URL.Query().Get("owner")
	if !requireField(w, owner, "owner") {
		return
	}
	n, err := h.Collections.Balance(r.Context(), address, owner)
	if err != nil {
		writeDomainError(w, err, "collection not found")
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Address: address, Owner: owner, Balance: n})
}

type metadataResponse struct {
	URI string `json:"uri"`
}

// UploadMetadata handles POST /api/v1/metadata.
func (h *Handlers) UploadMetadata(w http.ResponseWriter, r *http.Request) {
	md, ok := readJSON[collection.Metadata](w, r)
	if !ok {
		return
	}
	if !requireField(w, md.Name, "name") {
		return
	}
	uri, err := h.Collections.UploadMetadata(r.Context(), md)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, metadataResponse{URI: uri})
}

// UploadImage handles POST /api/v1/images. The body is the raw image and
// Content-Type names its media type.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, collection.MaxImageSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return
	}
	uri, err := h.Collections.UploadImage(r.Context(), r.Header.Get("Content-Type"), data)
	if err != nil {
		writeDomainError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, metadataResponse{URI: uri})
}

// GetMetadata handles GET /api/v1/metadata?uri=ipfs://…. It returns whatever
// is stored behind the URI: a metadata document or an image.
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if !requireField(w, uri, "uri") {
		return
	}
	c, err := h.Collections.ResolveContent(r.Context(), uri)
	if err != nil {
		writeDomainError(w, err, "content not found")
		return
	}
	w.Header().Set("Content-Type", c.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}
