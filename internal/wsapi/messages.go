package wsapi

import "encoding/json"

// Command types
const (
	CmdAddProduct    = "shopping_list_manager/add_product"
	CmdSetQty        = "shopping_list_manager/set_qty"
	CmdGetProducts   = "shopping_list_manager/get_products"
	CmdGetActive     = "shopping_list_manager/get_active"
	CmdDeleteProduct = "shopping_list_manager/delete_product"
	CmdGetFullState  = "shopping_list_manager/get_full_state"
	CmdSubscribe     = "shopping_list_manager/subscribe"
	CmdUnsubscribe   = "shopping_list_manager/unsubscribe"

	// EventUpdated is pushed to subscribers after every change
	EventUpdated = "shopping_list_manager_updated"
)

// Error codes
const (
	CodeInvalidFormat      = "invalid_format"
	CodeUnknownCommand     = "unknown_command"
	CodeInvariantViolation = "invariant_violation"
	CodeNotFound           = "not_found"
	CodeIDReuse            = "id_reuse"
)

// request is the union of every command's fields
type request struct {
	ID           int     `json:"id"`
	Type         string  `json:"type"`
	Key          *string `json:"key,omitempty"`
	Name         *string `json:"name,omitempty"`
	Category     string  `json:"category,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	Image        string  `json:"image,omitempty"`
	Qty          *int    `json:"qty,omitempty"`
	Subscription int     `json:"subscription,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// response is sent for every request
type response struct {
	ID      int        `json:"id"`
	Type    string     `json:"type"`
	Success bool       `json:"success"`
	Result  any        `json:"result"`
	Error   *errorBody `json:"error,omitempty"`
}

type event struct {
	ID    int       `json:"id"`
	Type  string    `json:"type"`
	Event eventBody `json:"event"`
}

type eventBody struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func success(id int, result any) response {
	return response{ID: id, Type: "result", Success: true, Result: result}
}

func failure(id int, code, message string) response {
	return response{ID: id, Type: "result", Error: &errorBody{Code: code, Message: message}}
}
