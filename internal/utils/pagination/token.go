package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const tokenPrefix = "after"

// EncodeToken creates an opaque cursor pointing just past the item with id lastID.
func EncodeToken(lastID int) string {
	return base64.URLEncoding.EncodeToString([]byte(tokenPrefix + "|" + strconv.Itoa(lastID)))
}

// DecodeToken parses a cursor produced by EncodeToken and returns the id it points past.
func DecodeToken(token string) (int, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	prefix, idText, ok := strings.Cut(string(decodedBytes), "|")
	if !ok || prefix != tokenPrefix {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	lastID, err := strconv.Atoi(idText)
	if err != nil || lastID < 0 {
		return 0, fmt.Errorf("invalid pagination token format (id parse): %q", idText)
	}
	return lastID, nil
}
