package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samandr77/microservices/bills/internal/entity"
	"github.com/samandr77/microservices/bills/internal/service"
)

const (
	billsPageTitle  = "Mes notes de frais"
	billsActiveIcon = "icon-window"
	newBillIcon     = "icon-mail"
)

type BillList interface {
	Load(ctx context.Context) ([]entity.BillView, error)
	ByID(ctx context.Context, id string) (entity.BillView, error)
	OnClickNewBill(ctx context.Context)
	OnClickIconEye(bill entity.BillView) entity.Preview
}

type Forms interface {
	Open(email string) *service.NewBillForm
	Current(email string) *service.NewBillForm
	Close(email string)
}

type SessionAccessor interface {
	Session(ctx context.Context) (entity.Session, bool)
}

type RouteReader interface {
	Current(email string) entity.Route
}

type ReceiptDownloader interface {
	DownloadDocument(ctx context.Context, url string) ([]byte, error)
}

// @title Bills API
// @version 1.0
// @description Employee expense reports: bills list and new bill form.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type Handler struct {
	bills          BillList
	forms          Forms
	sessions       SessionAccessor
	routes         RouteReader
	receipts       ReceiptDownloader
	maxUploadBytes int64
}

func NewHandler(
	bills BillList,
	forms Forms,
	sessions SessionAccessor,
	routes RouteReader,
	receipts ReceiptDownloader,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		bills:          bills,
		forms:          forms,
		sessions:       sessions,
		routes:         routes,
		receipts:       receipts,
		maxUploadBytes: maxUploadBytes,
	}
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Success      200 {string} string "OK"
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("OK\n"))
	if err != nil {
		SendErr(ctx, w, http.StatusInternalServerError, err, errInternalText)
	}
}

type RouteResponse struct {
	Route entity.Route `json:"route"`
	Path  string       `json:"path"`
}

type BillsPageResponse struct {
	Title      string            `json:"title"`
	ActiveIcon string            `json:"activeIcon"`
	Route      RouteResponse     `json:"route"`
	Bills      []entity.BillView `json:"bills"`
}

// Bills godoc
// @Summary      Bills of the logged in employee
// @Description  Bills sorted from the most recent, with display dates and status labels
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} BillsPageResponse
// @Failure      401 {object} ResponseError
// @Failure      403 {object} ResponseError
// @Failure      502 {object} ResponseError "Store unreachable"
// @Router       /bills [get]
func (h *Handler) Bills(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bills, err := h.bills.Load(ctx)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, BillsPageResponse{
		Title:      billsPageTitle,
		ActiveIcon: billsActiveIcon,
		Route:      h.route(ctx),
		Bills:      bills,
	})
}

// NewBill godoc
// @Summary      "Nouvelle note de frais" button
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} RouteResponse
// @Router       /bills/new [post]
func (h *Handler) NewBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.bills.OnClickNewBill(ctx)

	SendJSON(ctx, w, http.StatusOK, h.route(ctx))
}

// Preview godoc
// @Summary      Receipt preview of a bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Bill ID"
// @Success      200 {object} entity.Preview
// @Failure      404 {object} ResponseError
// @Router       /bills/{id}/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bill, err := h.bills.ByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, h.bills.OnClickIconEye(bill))
}

// Receipt godoc
// @Summary      Download the receipt file of a bill
// @Tags         bills
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path string true "Bill ID"
// @Success      200 {file} file
// @Failure      404 {object} ResponseError
// @Failure      502 {object} ResponseError
// @Router       /bills/{id}/receipt [get]
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bill, err := h.bills.ByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	if bill.FileURL == "" {
		SendErr(ctx, w, http.StatusNotFound, fmt.Errorf("%w: bill %s has no receipt", entity.ErrNotFound, bill.ID),
			"Aucun justificatif")
		return
	}

	data, err := h.receipts.DownloadDocument(ctx, bill.FileURL)
	if err != nil {
		sendServiceErr(ctx, w, &entity.TransportError{Op: "download", Err: err})
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", bill.FileName))
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(data)
}

type FormResponse struct {
	State        string       `json:"state"`
	ActiveIcon   string       `json:"activeIcon"`
	Draft        entity.Draft `json:"draft"`
	ExpenseTypes []string     `json:"expenseTypes,omitempty"`
	DefaultPct   int          `json:"defaultPct,omitempty"`
}

// OpenForm godoc
// @Summary      Open a fresh new bill form
// @Tags         newbill
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} FormResponse
// @Router       /newbill [get]
func (h *Handler) OpenForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.sessions.Session(ctx)
	if !ok {
		sendServiceErr(ctx, w, entity.ErrUnauthorized)
		return
	}

	form := h.forms.Open(s.Email)

	SendJSON(ctx, w, http.StatusOK, FormResponse{
		State:        form.State().String(),
		ActiveIcon:   newBillIcon,
		Draft:        form.Draft(),
		ExpenseTypes: entity.ExpenseTypes,
		DefaultPct:   entity.DefaultPct,
	})
}

// SelectFile godoc
// @Summary      Attach a receipt to the new bill
// @Description  Only jpg, jpeg and png files are accepted. The upload creates a pending draft.
// @Tags         newbill
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Receipt"
// @Success      200 {object} FormResponse
// @Failure      400 {object} ResponseError
// @Failure      409 {object} ResponseError "A newer file was selected"
// @Failure      422 {object} ResponseError "Unsupported extension"
// @Failure      502 {object} ResponseError
// @Router       /newbill/file [post]
func (h *Handler) SelectFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.sessions.Session(ctx)
	if !ok {
		sendServiceErr(ctx, w, entity.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		SendErr(ctx, w, http.StatusBadRequest, fmt.Errorf("%w: %w", entity.ErrIncorrectRequestBody, err), "Fichier manquant")
		return
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			SendErr(ctx, w, http.StatusRequestEntityTooLarge, err, "Fichier trop volumineux")
			return
		}

		SendErr(ctx, w, http.StatusBadRequest, err, "Fichier illisible")

		return
	}

	form := h.forms.Current(s.Email)

	draft, err := form.SelectFile(ctx, entity.ReceiptFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, FormResponse{
		State:      form.State().String(),
		ActiveIcon: newBillIcon,
		Draft:      draft,
	})
}

type SubmitResponse struct {
	Bill  entity.Bill   `json:"bill"`
	Route RouteResponse `json:"route"`
}

// Submit godoc
// @Summary      Submit the new bill
// @Tags         newbill
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.FormValues true "Form values"
// @Success      200 {object} SubmitResponse
// @Failure      400 {object} ResponseError
// @Failure      409 {object} ResponseError "No receipt attached"
// @Failure      422 {object} ResponseError
// @Failure      502 {object} ResponseError
// @Router       /newbill [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, ok := h.sessions.Session(ctx)
	if !ok {
		sendServiceErr(ctx, w, entity.ErrUnauthorized)
		return
	}

	var values entity.FormValues

	err := json.NewDecoder(r.Body).Decode(&values)
	if err != nil {
		SendErr(ctx, w, http.StatusBadRequest, fmt.Errorf("%w: %w", entity.ErrIncorrectRequestBody, err),
			"Corps de requête invalide")
		return
	}

	bill, err := h.forms.Current(s.Email).Submit(ctx, values)
	if err != nil {
		sendServiceErr(ctx, w, err)
		return
	}

	h.forms.Close(s.Email)

	SendJSON(ctx, w, http.StatusOK, SubmitResponse{
		Bill:  bill,
		Route: h.route(ctx),
	})
}

func (h *Handler) route(ctx context.Context) RouteResponse {
	route := entity.RouteBills

	if s, ok := h.sessions.Session(ctx); ok {
		route = h.routes.Current(s.Email)
	}

	return RouteResponse{Route: route, Path: route.Path()}
}
