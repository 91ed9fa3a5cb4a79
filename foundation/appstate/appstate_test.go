package appstate_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/ardanlabs/algoapps/foundation/appstate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// =============================================================================

func Test_Format(t *testing.T) {
	kvs := []models.TealKeyValue{
		{Key: b64("Count"), Value: models.TealValue{Type: 2, Uint: 3}},
		{Key: b64("voted"), Value: models.TealValue{Type: 1, Bytes: b64("yes")}},
		{Key: b64("empty"), Value: models.TealValue{Type: 1}},
	}

	t.Log("Given the need to decode application state.")
	{
		t.Logf("\tTest 0:\tWhen handling integer and byte values.")
		{
			state, err := appstate.Format(kvs)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to format the state: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to format the state.", success)

			count, err := state.Uint("Count")
			if err != nil || count != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould get back a count of 3, got %d: %v", failed, count, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get back a count of 3.", success)

			voted, err := state.Bytes("voted")
			if err != nil || string(voted) != "yes" {
				t.Fatalf("\t%s\tTest 0:\tShould get back the decoded bytes, got %q: %v", failed, voted, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the decoded bytes.", success)

			keys := state.Keys()
			if len(keys) != 3 || keys[0] != "Count" || keys[1] != "empty" || keys[2] != "voted" {
				t.Fatalf("\t%s\tTest 0:\tShould get back sorted keys: %v", failed, keys)
			}
			t.Logf("\t%s\tTest 0:\tShould get back sorted keys.", success)

			if _, err := state.Bytes("Count"); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould not read an integer as bytes.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not read an integer as bytes.", success)

			if s := state["Count"].String(); s != "3" {
				t.Fatalf("\t%s\tTest 0:\tShould print the integer, got %s.", failed, s)
			}
			if s := state["voted"].String(); s != `"yes"` {
				t.Fatalf("\t%s\tTest 0:\tShould print the quoted bytes, got %s.", failed, s)
			}
			t.Logf("\t%s\tTest 0:\tShould print the values.", success)
		}

		t.Logf("\tTest 1:\tWhen handling a missing key.")
		{
			state, err := appstate.Format(nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to format empty state: %s", failed, err)
			}
			count, err := state.Uint("Count")
			if err != nil || count != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould read a missing key as zero.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould read a missing key as zero.", success)
		}

		t.Logf("\tTest 2:\tWhen handling an unknown value type.")
		{
			_, err := appstate.Format([]models.TealKeyValue{
				{Key: b64("odd"), Value: models.TealValue{Type: 3}},
			})
			if !errors.Is(err, appstate.ErrUnexpectedType) {
				t.Fatalf("\t%s\tTest 2:\tShould get back an unexpected type error: %v", failed, err)
			}

			var ute *appstate.UnexpectedTypeError
			if !errors.As(err, &ute) || ute.Key != "odd" || ute.Type != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould name the key and type: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get back an unexpected type error.", success)
		}

		t.Logf("\tTest 3:\tWhen handling a key that is not base64.")
		{
			_, err := appstate.Format([]models.TealKeyValue{
				{Key: "!!!", Value: models.TealValue{Type: 2}},
			})
			if err == nil {
				t.Fatalf("\t%s\tTest 3:\tShould fail to decode the key.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould fail to decode the key.", success)
		}
	}
}
