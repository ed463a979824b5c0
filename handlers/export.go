package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"restrobilling/services"
)

// sanitizeFilename replaces characters that are unsafe in download names.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func billFilename(orderID, ext string) string {
	return fmt.Sprintf("bill-%s.%s", sanitizeFilename(orderID), ext)
}

func printDocuments(env *Env, s *services.BillingSession) ([]services.Document, string) {
	in := s.Snapshot(env.Now())
	return services.BuildDocuments(in, services.ModePrint), in.Order.OrderID
}

// HandleExportPDF handles GET /billing/{id}/export/pdf.
func HandleExportPDF(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		docs, orderID := printDocuments(env, s)

		pdfBytes, err := services.GenerateBillPDF(docs)
		if err != nil {
			return internalError(e, "export: generate PDF", err)
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, billFilename(orderID, "pdf")))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(pdfBytes)
		return err
	})
}

// HandleExportExcel handles GET /billing/{id}/export/excel.
func HandleExportExcel(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		docs, orderID := printDocuments(env, s)

		xlsxBytes, err := services.GenerateBillExcel(docs)
		if err != nil {
			return internalError(e, "export: generate Excel", err)
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, billFilename(orderID, "xlsx")))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(xlsxBytes)
		return err
	})
}
