package webmetrics

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
)

// ClientTagsContributor tags requests with the bearer token's subject claim
// as client.id. The token is decoded without signature verification: the
// filter runs for telemetry only, and rejecting forged tokens is the job of
// the authentication layer. Subjects are expected to be a small, stable set
// (service accounts), keeping the tag low-cardinality.
type ClientTagsContributor struct{}

// ContributeTags implements TagsContributor.
func (ClientTagsContributor) ContributeTags(rc *RequestContext) []attribute.KeyValue {
	raw, ok := strings.CutPrefix(rc.Request.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String("client.id", sub)}
}

var _ TagsContributor = ClientTagsContributor{}
