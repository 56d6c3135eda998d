package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFactory(t *testing.T) {
	Convey("Given the provider factory", t, func() {
		Convey("When an unknown provider is configured", func() {
			_, err := New(Config{Provider: "carrier-pigeon"})

			Convey("Then the factory refuses", func() {
				So(err, ShouldEqual, ErrNoProvider)
			})
		})

		Convey("When no provider is configured", func() {
			c, err := New(Config{})

			Convey("Then the static client is the default", func() {
				So(err, ShouldBeNil)
				So(c.Name(), ShouldEqual, "static")
			})
		})

		Convey("When the openai provider lacks a model", func() {
			_, err := New(Config{Provider: "openai"})

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestOpenAI(t *testing.T) {
	Convey("Given an OpenAI-compatible server", t, func() {
		var gotAuth string
		var gotReq chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotReq)
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": "Kohli anchors the chase."}},
				},
			})
		}))
		defer srv.Close()

		c, err := New(Config{Provider: "openai", BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini", Timeout: time.Second})
		So(err, ShouldBeNil)

		Convey("When a completion is requested", func() {
			out, err := c.Complete(context.Background(), "prompt")

			Convey("Then the first choice is returned with auth set", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "Kohli anchors the chase.")
				So(gotAuth, ShouldEqual, "Bearer sk-test")
				So(gotReq.Messages, ShouldHaveLength, 1)
				So(gotReq.Model, ShouldEqual, "gpt-4o-mini")
			})
		})
	})

	Convey("Given a server that returns an API error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
			})
		}))
		defer srv.Close()

		c, err := New(Config{Provider: "openai", BaseURL: srv.URL, Model: "gpt-4o-mini", Timeout: time.Second})
		So(err, ShouldBeNil)

		Convey("When a completion is requested", func() {
			_, err := c.Complete(context.Background(), "prompt")

			Convey("Then the API error surfaces", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "rate limited")
			})
		})
	})

	Convey("Given a server that returns no choices", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer srv.Close()

		c, err := New(Config{Provider: "openai", BaseURL: srv.URL, Model: "gpt-4o-mini", Timeout: time.Second})
		So(err, ShouldBeNil)

		Convey("When a completion is requested", func() {
			_, err := c.Complete(context.Background(), "prompt")

			Convey("Then the empty completion is an error", func() {
				So(err, ShouldEqual, ErrEmptyCompletion)
			})
		})
	})
}

func TestOllama(t *testing.T) {
	Convey("Given an Ollama server", t, func() {
		var gotPath string
		var gotReq generateRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&gotReq)
			json.NewEncoder(w).Encode(map[string]string{"response": "Send the finisher at over sixteen."})
		}))
		defer srv.Close()

		c, err := New(Config{Provider: "ollama", BaseURL: srv.URL, Model: "llama3", Timeout: time.Second})
		So(err, ShouldBeNil)

		Convey("When a completion is requested", func() {
			out, err := c.Complete(context.Background(), "prompt")

			Convey("Then the response text is returned", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "Send the finisher at over sixteen.")
				So(gotPath, ShouldEqual, "/api/generate")
				So(gotReq.Stream, ShouldBeFalse)
			})
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a static client", t, func() {
		c := NewStatic("fixed answer")

		Convey("When completions are requested", func() {
			out, err := c.Complete(context.Background(), "p1")

			Convey("Then the reply is fixed and prompts are recorded", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "fixed answer")
				So(c.Prompts, ShouldResemble, []string{"p1"})
			})
		})
	})
}
