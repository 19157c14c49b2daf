// internal/adapters/out/mail/sendgrid_client_test.go
package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLBodyEscapesCustomerText(t *testing.T) {
	got := htmlBody("Order BREW-01 for <script>alert('x')</script> & Co.")

	assert.Equal(t,
		"<pre>Order BREW-01 for &lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt; &amp; Co.</pre>",
		got)
}

func TestHTMLBodyKeepsPlainTextIntact(t *testing.T) {
	got := htmlBody("Hi Ada,\n\nyour return BREW-RET-01 was approved.")

	assert.Equal(t, "<pre>Hi Ada,\n\nyour return BREW-RET-01 was approved.</pre>", got)
}
