package monitors

import (
	"context"
	"errors"
	"net/http"
)

// HTTPCheck requests url and expects expectedStatus back.
func HTTPCheck(client *http.Client, url string, headers map[string]string, expectedStatus int) Check {
	if client == nil {
		client = http.DefaultClient
	}

	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		for key, value := range headers {
			req.Header.Add(key, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != expectedStatus {
			return errors.New("unexpected status code: " + resp.Status)
		}

		return nil
	}
}
