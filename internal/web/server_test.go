package web

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	tasks := repository.NewTaskRepository(db)

	cfg := config.Config{ViewsDir: "../../web/views"}
	return New(cfg,
		users,
		service.NewAuthService(users),
		service.NewTaskService(tasks, categories),
		service.NewCategoryService(categories),
	)
}

// testClient drives the fiber app in-process, carrying cookies between
// requests like a browser would.
type testClient struct {
	t       *testing.T
	server  *Server
	cookies map[string]string
}

func newTestClient(t *testing.T, server *Server) *testClient {
	return &testClient{t: t, server: server, cookies: make(map[string]string)}
}

func (c *testClient) do(method, target string, form url.Values) *http.Response {
	c.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.server.App().Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie.Value
	}
	return resp
}

func (c *testClient) body(resp *http.Response) string {
	c.t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return string(data)
}

func (c *testClient) register(username, password string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/register", url.Values{"username": {username}, "password": {password}})
	if resp.StatusCode != http.StatusFound {
		c.t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}
}

func (c *testClient) login(username, password string) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		c.t.Fatalf("login %s: status %d location %q", username, resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestGateRedirectsUnauthenticated(t *testing.T) {
	client := newTestClient(t, newTestServer(t))

	for _, target := range []string{"/", "/toggle/1", "/edit/1"} {
		resp := client.do(http.MethodGet, target, nil)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("GET %s: status %d, want 302", target, resp.StatusCode)
		}
		location := resp.Header.Get("Location")
		if !strings.HasPrefix(location, "/login?next=") {
			t.Fatalf("GET %s: redirected to %q, want login with next", target, location)
		}
		if !strings.Contains(location, url.QueryEscape(target)) {
			t.Fatalf("GET %s: next does not preserve path: %q", target, location)
		}
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	client := newTestClient(t, newTestServer(t))

	client.register("alice", "s3cret")
	client.login("alice", "s3cret")

	resp := client.do(http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / after login: status %d", resp.StatusCode)
	}
	if body := client.body(resp); !strings.Contains(body, "alice") {
		t.Fatal("board does not show the logged-in user")
	}

	// Logout clears the session: the board is gated again.
	client.do(http.MethodGet, "/logout", nil)
	resp = client.do(http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("GET / after logout: status %d, want 302", resp.StatusCode)
	}
}

func TestLoginFailureKeepsGateClosed(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.register("alice", "s3cret")

	resp := client.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/login" {
		t.Fatalf("failed login: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = client.do(http.MethodGet, "/", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("gate open after failed login: status %d", resp.StatusCode)
	}
}

func TestTaskLifecycleOverBoard(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.register("alice", "s3cret")
	client.login("alice", "s3cret")

	resp := client.do(http.MethodPost, "/", url.Values{
		"form_type": {"create_task"},
		"title":     {"Pay rent"},
		"deadline":  {"2020-01-01"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create task: status %d", resp.StatusCode)
	}

	body := client.body(client.do(http.MethodGet, "/", nil))
	if !strings.Contains(body, "Pay rent") || !strings.Contains(body, service.StatusOverdue) {
		t.Fatal("board should list the new task as Overdue")
	}

	// Toggle flips it to Done; the deadline no longer matters.
	client.do(http.MethodGet, "/toggle/1", nil)
	body = client.body(client.do(http.MethodGet, "/", nil))
	if !strings.Contains(body, service.StatusDone) || strings.Contains(body, service.StatusOverdue) {
		t.Fatal("board should show the toggled task as Done")
	}

	// Title search.
	body = client.body(client.do(http.MethodGet, "/?q=rent", nil))
	if !strings.Contains(body, "Pay rent") {
		t.Fatal("q=rent should match the task")
	}
	body = client.body(client.do(http.MethodGet, "/?q=zzz", nil))
	if strings.Contains(body, "Pay rent") {
		t.Fatal("q=zzz should match nothing")
	}
}

func TestDeleteIsTenantScoped(t *testing.T) {
	server := newTestServer(t)

	alice := newTestClient(t, server)
	alice.register("alice", "s3cret")
	alice.login("alice", "s3cret")
	alice.do(http.MethodPost, "/", url.Values{"form_type": {"create_task"}, "title": {"Pay rent"}})

	bob := newTestClient(t, server)
	bob.register("bob", "hunter2")
	bob.login("bob", "hunter2")

	resp := bob.do(http.MethodPost, "/delete/1", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("cross-tenant delete: status %d", resp.StatusCode)
	}

	body := alice.body(alice.do(http.MethodGet, "/", nil))
	if !strings.Contains(body, "Pay rent") {
		t.Fatal("task must survive a delete from another user's session")
	}
}

func TestCreateTaskRejectsBadDeadline(t *testing.T) {
	client := newTestClient(t, newTestServer(t))
	client.register("alice", "s3cret")
	client.login("alice", "s3cret")

	resp := client.do(http.MethodPost, "/", url.Values{
		"form_type": {"create_task"},
		"title":     {"Pay rent"},
		"deadline":  {"not-a-date"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("bad deadline: status %d", resp.StatusCode)
	}

	body := client.body(client.do(http.MethodGet, "/", nil))
	if strings.Contains(body, "Pay rent") {
		t.Fatal("task with malformed deadline must not be created")
	}
	if !strings.Contains(body, service.ErrInvalidDeadline.Error()) {
		t.Fatal("expected a validation flash for the malformed deadline")
	}
}
