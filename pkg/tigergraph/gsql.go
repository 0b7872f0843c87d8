// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tigergraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GSQL executes a GSQL statement (or a newline-separated batch of
// statements) via the GSQL server and returns the raw multi-line text
// output, exactly as the gsql shell would print it.
//
// GSQL output is text, not JSON: success or failure of admin commands
// (INSTALL QUERY, RUN GLOBAL SCHEMA_CHANGE JOB, ...) is embedded in
// the final status line. Use LastStatusLine and CommandError to
// inspect it.
func (c *Connection) GSQL(ctx context.Context, statement string) (string, error) {
	rawURL := c.gsURL + "/gsqlserver/gsql/file"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(statement))
	if err != nil {
		return "", fmt.Errorf("build gsql request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	c.logger.Debug("gsql request", "bytes", len(statement))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gsql response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &RemoteError{Message: fmt.Sprintf("gsql server returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))}
	}

	return string(data), nil
}

// LastStatusLine returns the final non-empty line of a GSQL response.
func LastStatusLine(output string) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// CheckGSQLStatus inspects the final status line of a GSQL response
// and returns a CommandError when it carries the failure marker.
//
// There is deliberately no retry here: admin commands are not
// transactional, and a failure partway leaves remote state ambiguous.
// Callers that need certainty must re-query the server.
func CheckGSQLStatus(output string) error {
	status := LastStatusLine(output)
	if strings.Contains(status, "Failed") {
		return &CommandError{Status: status}
	}
	return nil
}
