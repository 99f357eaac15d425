package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

const farePage = `<!DOCTYPE html>
<html>
<body>
  <div id="faresOutbound">
    <span class="product_price">$300</span>
    <span class="product_price">$250</span>
    <span class="product_price">$280</span>
  </div>
  <div id="faresReturn">
    <span class="product_price">$ 310</span>
    <span class="product_price">$299</span>
  </div>
</body>
</html>`

const outboundOnlyPage = `<!DOCTYPE html>
<html>
<body>
  <div id="faresOutbound">
    <span class="product_price">$199</span>
  </div>
  <div id="faresReturn"></div>
</body>
</html>`

func TestSiteFetchFares(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/flight/search-flight.html" {
			t.Errorf("path = %s, want /flight/search-flight.html", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		w.Write([]byte(farePage))
	}))
	defer srv.Close()

	site := NewSite(Options{
		BaseURL:      srv.URL,
		Origin:       "OAK",
		Destination:  "DAL",
		OutboundDate: "2026-09-10",
		ReturnDate:   "2026-09-17",
		Passengers:   2,
	}, noopLogger())

	batch, err := site.FetchFares(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}

	wantOutbound := []int64{300, 250, 280}
	if len(batch.Outbound) != len(wantOutbound) {
		t.Fatalf("outbound = %v, want %v", batch.Outbound, wantOutbound)
	}
	for i, want := range wantOutbound {
		if batch.Outbound[i] != want {
			t.Errorf("outbound[%d] = %d, want %d", i, batch.Outbound[i], want)
		}
	}

	wantReturn := []int64{310, 299}
	if len(batch.Return) != len(wantReturn) {
		t.Fatalf("return = %v, want %v", batch.Return, wantReturn)
	}
	for i, want := range wantReturn {
		if batch.Return[i] != want {
			t.Errorf("return[%d] = %d, want %d", i, batch.Return[i], want)
		}
	}

	wantForm := map[string]string{
		"twoWayTrip":          "true",
		"originAirport":       "OAK",
		"destinationAirport":  "DAL",
		"outboundDateString":  "2026-09-10",
		"returnDateString":    "2026-09-17",
		"adultPassengerCount": "2",
	}
	for key, want := range wantForm {
		if gotForm[key] != want {
			t.Errorf("form[%s] = %q, want %q", key, gotForm[key], want)
		}
	}
}

func TestSiteFetchFaresEmptyDirection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(outboundOnlyPage))
	}))
	defer srv.Close()

	site := NewSite(Options{
		BaseURL:     srv.URL,
		Origin:      "OAK",
		Destination: "DAL",
	}, noopLogger())

	batch, err := site.FetchFares(context.Background())
	if err != nil {
		t.Fatalf("FetchFares: %v", err)
	}
	if len(batch.Outbound) != 1 || batch.Outbound[0] != 199 {
		t.Errorf("outbound = %v, want [199]", batch.Outbound)
	}
	if len(batch.Return) != 0 {
		t.Errorf("return = %v, want empty", batch.Return)
	}
}

func TestSiteFetchFaresHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	site := NewSite(Options{
		BaseURL:     srv.URL,
		Origin:      "OAK",
		Destination: "DAL",
	}, noopLogger())

	if _, err := site.FetchFares(context.Background()); err == nil {
		t.Fatal("HTTP 502 应返回错误")
	}
}

func TestSiteFetchFaresMissingBaseURL(t *testing.T) {
	site := NewSite(Options{Origin: "OAK", Destination: "DAL"}, noopLogger())
	if _, err := site.FetchFares(context.Background()); err == nil {
		t.Fatal("缺少 base url 时应返回错误")
	}
}

func TestSiteFetchFaresMissingRoute(t *testing.T) {
	site := NewSite(Options{BaseURL: "http://127.0.0.1:0"}, noopLogger())
	if _, err := site.FetchFares(context.Background()); err == nil {
		t.Fatal("缺少航线机场时应返回错误")
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int64
		ok   bool
	}{
		{name: "plain", text: "$300", want: 300, ok: true},
		{name: "space after symbol", text: "$ 250", want: 250, ok: true},
		{name: "surrounding text", text: "From $129 one-way", want: 129, ok: true},
		{name: "no currency symbol", text: "300", ok: false},
		{name: "no digits", text: "$Sold Out", ok: false},
		{name: "empty", text: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePrice(tc.text)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("price = %d, want %d", got, tc.want)
			}
		})
	}
}
