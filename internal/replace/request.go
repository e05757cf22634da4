package replace

import "encoding/json"

// wireRequest is the JSON body POSTed to /api/v1/replace: the webcash
// being spent, the webcash replacing it, and the terms-acceptance flag.
type wireRequest struct {
	Webcashes    []string `json:"webcashes"`
	NewWebcashes []string `json:"new_webcashes"`
	Legalese     legalese `json:"legalese"`
}

type legalese struct {
	Terms bool `json:"terms"`
}

func marshalRequest(inputs []string, outputs []string, termsAccepted bool) ([]byte, error) {
	return json.Marshal(wireRequest{
		Webcashes:    inputs,
		NewWebcashes: outputs,
		Legalese:     legalese{Terms: termsAccepted},
	})
}
