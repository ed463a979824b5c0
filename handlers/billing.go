package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"restrobilling/services"
	"restrobilling/templates"
)

// loadSession resolves the {id} path value. A missing session renders the
// "No order found!" page with 404.
func loadSession(env *Env, e *core.RequestEvent) (*services.BillingSession, error) {
	id := e.Request.PathValue("id")
	session, err := env.Sessions.Get(id)
	if err != nil {
		zap.L().Info("billing: session not found", zap.String("session", id))
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(http.StatusNotFound)
		if renderErr := templates.NoOrderPage().Render(e.Request.Context(), e.Response); renderErr != nil {
			return nil, renderErr
		}
		return nil, err
	}
	return session, nil
}

func buildBillingData(env *Env, session *services.BillingSession, mode services.RenderMode) templates.BillingPageData {
	in := session.Snapshot(env.Now())
	return templates.BillingPageData{
		SessionID: session.ID(),
		OrderID:   in.Order.OrderID,
		Documents: services.BuildDocuments(in, mode),
	}
}

func renderDocuments(env *Env, e *core.RequestEvent, session *services.BillingSession) error {
	data := buildBillingData(env, session, services.ModeScreen)
	return templates.DocumentsSection(data).Render(e.Request.Context(), e.Response)
}

// sessionHandler adapts a handler that needs a live billing session.
func sessionHandler(env *Env, fn func(e *core.RequestEvent, s *services.BillingSession) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session, err := loadSession(env, e)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return nil
			}
			return internalError(e, "billing: render not-found page", err)
		}
		return fn(e, session)
	}
}

func itemIndex(e *core.RequestEvent) (int, bool) {
	index, err := strconv.Atoi(e.Request.PathValue("index"))
	return index, err == nil
}

// HandleBillingView handles GET /billing/{id}.
func HandleBillingView(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		data := buildBillingData(env, s, services.ModeScreen)
		if isHTMX(e) {
			return templates.DocumentsSection(data).Render(e.Request.Context(), e.Response)
		}
		return templates.BillingPage(data).Render(e.Request.Context(), e.Response)
	})
}

// HandleBillingPrint handles GET /billing/{id}/print.
func HandleBillingPrint(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		data := buildBillingData(env, s, services.ModePrint)
		return templates.PrintPage(data).Render(e.Request.Context(), e.Response)
	})
}

// HandleAddItem handles POST /billing/{id}/items from the new-item row.
func HandleAddItem(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		draft := services.NewItemDraft()
		for _, field := range []string{services.FieldName, services.FieldQty, services.FieldPrice} {
			if err := draft.Set(field, e.Request.FormValue(field)); err != nil {
				return internalError(e, "billing: set draft field", err)
			}
		}

		item, err := s.AddItem(draft)
		switch {
		case errors.Is(err, services.ErrMissingRequiredFields):
			SetToast(e, ToastWarning, "Please fill all fields for the new item.")
		case err != nil:
			return internalError(e, "billing: add item", err)
		default:
			SetToast(e, ToastSuccess, item.Name+" added")
		}
		return renderDocuments(env, e, s)
	})
}

// HandleUpdateItem handles PATCH /billing/{id}/items/{index}. Every known
// field present in the form is applied.
func HandleUpdateItem(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		index, ok := itemIndex(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		for _, field := range []string{services.FieldName, services.FieldQty, services.FieldPrice} {
			if _, present := e.Request.Form[field]; !present {
				continue
			}
			err := s.UpdateItem(index, field, e.Request.FormValue(field))
			if errors.Is(err, services.ErrItemIndexOutOfRange) {
				return ErrorToast(e, http.StatusNotFound, "Item not found")
			}
			if err != nil {
				return internalError(e, "billing: update item", err)
			}
		}
		return renderDocuments(env, e, s)
	})
}

// HandleRemoveItem handles DELETE /billing/{id}/items/{index}.
func HandleRemoveItem(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		index, ok := itemIndex(e)
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Invalid item")
		}
		removed, err := s.RemoveItem(index)
		if errors.Is(err, services.ErrItemIndexOutOfRange) {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if err != nil {
			return internalError(e, "billing: remove item", err)
		}
		SetToast(e, ToastInfo, removed.Name+" removed")
		return renderDocuments(env, e, s)
	})
}

// HandleDraftUpdate handles PATCH /billing/{id}/draft and answers with the
// live amount of the new-item row.
func HandleDraftUpdate(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		for _, field := range []string{services.FieldName, services.FieldQty, services.FieldPrice} {
			if _, present := e.Request.Form[field]; !present {
				continue
			}
			if err := s.SetDraftField(field, e.Request.FormValue(field)); err != nil {
				return internalError(e, "billing: draft field", err)
			}
		}
		draft := s.Snapshot(env.Now()).Draft
		return templates.DraftAmount(draft).Render(e.Request.Context(), e.Response)
	})
}

// HandleSetDiscount handles POST /billing/{id}/discount.
func HandleSetDiscount(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		mode := services.ParseDiscountMode(e.Request.FormValue("discount_mode"))
		s.SetDiscount(mode, e.Request.FormValue("discount_value"))
		return renderDocuments(env, e, s)
	})
}

// HandleSetCashier handles POST /billing/{id}/cashier.
func HandleSetCashier(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if err := s.SetCashier(e.Request.FormValue("cashier")); err != nil {
			if errors.Is(err, services.ErrUnknownCashier) {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Unknown cashier")
			}
			return internalError(e, "billing: set cashier", err)
		}
		return renderDocuments(env, e, s)
	})
}

// HandlePlaceOrder handles POST /billing/{id}/place-order: the bill is
// finalised, the originating cart cleared and the session discarded.
func HandlePlaceOrder(env *Env) func(*core.RequestEvent) error {
	return sessionHandler(env, func(e *core.RequestEvent, s *services.BillingSession) error {
		order, err := env.Sessions.Finalize(s.ID(), env.Carts)
		switch {
		case errors.Is(err, services.ErrNothingToBill):
			return ErrorToast(e, http.StatusUnprocessableEntity, "Add at least one item before placing the order")
		case errors.Is(err, services.ErrSessionNotFound):
			return ErrorToast(e, http.StatusNotFound, "No order found!")
		case err != nil:
			return internalError(e, "billing: finalize", err)
		}

		zap.L().Info("billing: order finalised",
			zap.String("order_id", order.OrderID),
			zap.Int("items", len(order.Items)))
		SetToast(e, ToastSuccess, fmt.Sprintf("Order #%s placed successfully!", order.OrderID))
		return redirect(e, "/")
	})
}
