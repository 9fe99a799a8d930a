package sanity

import (
	"fmt"
	"strings"
)

// ImageURL resolves a stored image asset reference to a fetchable CDN URL.
// References look like "image-<assetId>-<width>x<height>-<format>", e.g.
// "image-a1b2c3-800x600-png" becomes
// "https://cdn.sanity.io/images/<project>/<dataset>/a1b2c3-800x600.png".
func (c *Client) ImageURL(ref string) (string, error) {
	parts := strings.Split(ref, "-")
	if len(parts) != 4 || parts[0] != "image" {
		return "", fmt.Errorf("malformed image reference: %q", ref)
	}
	assetID, dimensions, format := parts[1], parts[2], parts[3]
	if assetID == "" || dimensions == "" || format == "" {
		return "", fmt.Errorf("malformed image reference: %q", ref)
	}
	return fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s",
		c.cfg.ProjectID, c.cfg.Dataset, assetID, dimensions, format), nil
}
