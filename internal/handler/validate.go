package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate はリクエストDTOの検証器。スレッドセーフで使い回す。
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate はリクエストボディをJSONデコードし、
// validatorタグによる検証を行う。
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
