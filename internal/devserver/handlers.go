package devserver

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"facturador/internal/domain"
	"facturador/internal/export"
)

// Handler implements the invoice backend's endpoints over an in-memory store.
type Handler struct {
	store *Store
}

// NewHandler creates a Handler around a store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// detailList writes a pydantic-style validation failure.
func detailList(c *gin.Context, violations []Violation) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": violations})
}

// detailMessage writes a single-message detail object, the shape used for
// domain conflicts.
func detailMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": gin.H{"message": msg}})
}

// Upload handles POST /invoices/upload. The fixture returns a deterministic
// extraction so every client path past the upload can be exercised.
func (h *Handler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		detailMessage(c, http.StatusBadRequest, "Falta el archivo de la factura")
		return
	}
	defer file.Close()
	size, err := io.Copy(io.Discard, file)
	if err != nil || size == 0 {
		detailMessage(c, http.StatusBadRequest, "El archivo subido no es válido")
		return
	}
	log.Printf("devserver.Handler: extracted %s (%d bytes)", header.Filename, size)

	c.JSON(http.StatusOK, domain.Invoice{
		InvoiceType:     "A",
		IssuerLegalName: "Distribuidora El Sol S.A.",
		IssuerTaxID:     "30543211239",
		InvoiceNumber:   "0001-00001234",
		Date:            time.Now().Format("02/01/2006"),
		LineItems: []domain.LineItem{
			{Description: "Resma A4 75g", Quantity: 10, Subtotal: 4500},
			{Description: "Tóner negro", Quantity: 2, Subtotal: 18000},
		},
		Total: 22500,
	})
}

// Create handles POST /invoices.
func (h *Handler) Create(c *gin.Context) {
	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		detailMessage(c, http.StatusBadRequest, "Los datos ingresados son inválidos")
		return
	}
	if violations := validateInvoice(&inv); len(violations) > 0 {
		detailList(c, violations)
		return
	}
	if h.store.HasTaxID(inv.IssuerTaxID, 0) {
		detailMessage(c, http.StatusConflict, "CUIT ya existe")
		return
	}
	inv.ID = 0
	created := h.store.Create(inv)
	log.Printf("devserver.Handler: invoice %d created (%s)", created.ID, created.InvoiceNumber)
	c.Status(http.StatusNoContent)
}

// List handles GET /invoices.
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// Get handles GET /invoices/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detailMessage(c, http.StatusBadRequest, "Identificador inválido")
		return
	}
	inv, ok := h.store.Get(id)
	if !ok {
		detailMessage(c, http.StatusNotFound, "No se encontró la factura")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Update handles PUT /invoices/:id. The failure shapes match Create.
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detailMessage(c, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		detailMessage(c, http.StatusBadRequest, "Los datos ingresados son inválidos")
		return
	}
	inv.ID = id
	if violations := validateInvoice(&inv); len(violations) > 0 {
		detailList(c, violations)
		return
	}
	if h.store.HasTaxID(inv.IssuerTaxID, id) {
		detailMessage(c, http.StatusConflict, "CUIT ya existe")
		return
	}
	if !h.store.Update(inv) {
		detailMessage(c, http.StatusNotFound, "No se encontró la factura")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Delete handles DELETE /invoices/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detailMessage(c, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if !h.store.Delete(id) {
		detailMessage(c, http.StatusNotFound, "No se encontró la factura")
		return
	}
	c.Status(http.StatusNoContent)
}

// Export handles GET /invoices/export?format=pdf|csv.
func (h *Handler) Export(c *gin.Context) {
	invoices := h.store.List()
	switch c.Query("format") {
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err == nil {
			_ = w.WriteInvoices(invoices)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			detailMessage(c, http.StatusInternalServerError, "No se pudo generar el CSV")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.BuildFilename("facturas", "csv")))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "pdf":
		var buf bytes.Buffer
		if err := WritePDF(&buf, invoices); err != nil {
			detailMessage(c, http.StatusInternalServerError, "No se pudo generar el PDF")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.BuildFilename("facturas", "pdf")))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		detailMessage(c, http.StatusBadRequest, "Formato de exportación no soportado")
	}
}
