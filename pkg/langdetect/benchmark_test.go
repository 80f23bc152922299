package langdetect

import (
	"testing"
)

func BenchmarkIsERB(b *testing.B) {
	for range b.N {
		IsERB("app/views/users/_form.html.erb")
	}
}

func BenchmarkDetectContent(b *testing.B) {
	content := []byte(`<div class="user">
  <%= link_to user.name, user_path(user) %>
</div>`)
	b.ResetTimer()
	for range b.N {
		Detect("", content)
	}
}
