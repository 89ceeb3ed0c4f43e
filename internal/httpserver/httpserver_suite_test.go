package httpserver_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contactform/internal/handler"
	"contactform/internal/httpserver"
	"contactform/internal/model"
	"contactform/internal/repository"
	"contactform/internal/service/contact"
	"contactform/internal/sink"
	"contactform/pkg/config"
	"contactform/pkg/db"
)

func TestHTTPServerSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contact Form HTTP Suite")
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var _ = Describe("contact form endpoints", func() {
	var (
		dir     string
		gdb     *gorm.DB
		repo    *repository.SQLiteSubmissionRepository
		server  *httptest.Server
		csvPath string
		logPath string
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		dir = GinkgoT().TempDir()
		storePath := filepath.Join(dir, "contact_form.db")
		csvPath = filepath.Join(dir, "submissions.csv")
		logPath = filepath.Join(dir, "submissions.log")

		created, err := db.InitSQLiteStore(storePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		gdb, err = db.OpenSQLite(storePath)
		Expect(err).NotTo(HaveOccurred())
		repo = repository.NewSQLiteSubmissionRepository(gdb)

		fanOut := sink.NewFanOut(sink.NewStoreSink(repo), sink.NewCSVSink(csvPath), sink.NewLogSink(logPath))
		svc := contact.NewService(repo, fanOut, nil, zap.NewNop())
		router := httpserver.NewRouter(handler.NewContactHandler(svc, zap.NewNop()), repo, zap.NewNop(), httpserver.RouterOptions{})
		srv := httpserver.NewServer(config.ServerConfig{}, config.CORSConfig{}, router)
		server = httptest.NewServer(srv.Handler)
	})

	AfterEach(func() {
		server.Close()
		Expect(db.CloseSQLite(gdb)).To(Succeed())
	})

	seed := func(email, phone string) {
		_, err := repo.CreateSubmission(context.Background(), &model.Submission{
			Name: "Seed", Email: email, Message: "seeded", PhoneNumber: phone, Timestamp: time.Now(),
		})
		Expect(err).NotTo(HaveOccurred())
	}

	decode := func(resp *http.Response) apiResponse {
		defer resp.Body.Close()
		var out apiResponse
		Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
		return out
	}

	submit := func(form url.Values) (*http.Response, apiResponse) {
		resp, err := http.PostForm(server.URL+"/submit-form", form)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		return resp, decode(resp)
	}

	login := func(email, phone string) apiResponse {
		body, err := json.Marshal(model.Identity{Email: email, PhoneNumber: phone})
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(server.URL+"/login", "application/json", strings.NewReader(string(body)))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		return decode(resp)
	}

	form := func(name, email, message, service, phone string) url.Values {
		return url.Values{
			handler.FieldName:    {name},
			handler.FieldEmail:   {email},
			handler.FieldMessage: {message},
			handler.FieldService: {service},
			handler.FieldPhone:   {phone},
		}
	}

	rowCount := func() int64 {
		var n int64
		Expect(gdb.Raw("SELECT COUNT(*) FROM submissions").Scan(&n).Error).To(Succeed())
		return n
	}

	csvRows := func() [][]string {
		f, err := os.Open(csvPath)
		if os.IsNotExist(err) {
			return nil
		}
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		return rows
	}

	logLines := func() []string {
		data, err := os.ReadFile(logPath)
		if os.IsNotExist(err) {
			return nil
		}
		Expect(err).NotTo(HaveOccurred())
		return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	It("rejects an unknown identity without writing anything", func() {
		_, out := submit(form("Al", "a@x.com", "Hi", "Design", "555-1111"))

		Expect(out).To(Equal(apiResponse{Status: "error", Message: "Invalid email or phone number"}))
		Expect(rowCount()).To(BeZero())
		Expect(csvPath).NotTo(BeAnExistingFile())
		Expect(logPath).NotTo(BeAnExistingFile())
	})

	It("rejects a known identity with missing fields without writing anything", func() {
		seed("a@x.com", "555-1111")

		_, out := submit(form("", "a@x.com", "Hi", "", "555-1111"))

		Expect(out).To(Equal(apiResponse{Status: "error", Message: "Name, email, and message are required."}))
		Expect(rowCount()).To(Equal(int64(1)))
		Expect(csvPath).NotTo(BeAnExistingFile())
		Expect(logPath).NotTo(BeAnExistingFile())
	})

	It("writes an accepted submission to all three sinks", func() {
		seed("a@x.com", "555-1111")

		_, out := submit(form("Al", "a@x.com", "Hi", "Design", "555-1111"))
		Expect(out).To(Equal(apiResponse{Status: "success", Message: "Form submitted successfully"}))
		_, out = submit(form("Bo", "a@x.com", "Again", "", "555-1111"))
		Expect(out.Status).To(Equal("success"))

		Expect(rowCount()).To(Equal(int64(3)))

		rows := csvRows()
		Expect(rows).To(HaveLen(3))
		Expect(rows[0]).To(Equal(sink.CSVHeader))
		Expect(rows[1][:5]).To(Equal([]string{"Al", "a@x.com", "Hi", "Design", "555-1111"}))
		Expect(rows[2][:5]).To(Equal([]string{"Bo", "a@x.com", "Again", "", "555-1111"}))

		lines := logLines()
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("Name: Al, Email: a@x.com, Message: Hi, Service: Design, Phone: 555-1111, Timestamp: "))
		Expect(lines[1]).To(HavePrefix("Name: Bo, "))
	})

	It("logs in only on an exact identity match", func() {
		seed("a@x.com", "555-1111")

		Expect(login("a@x.com", "555-1111")).To(Equal(apiResponse{Status: "success", Message: "Login successful"}))
		Expect(login("a@x.com", "555-2222").Status).To(Equal("error"))
		Expect(login("A@x.com", "555-1111").Status).To(Equal("error"))
		Expect(login("a@x.co", "555-1111").Status).To(Equal("error"))
		Expect(login("", "").Status).To(Equal("error"))
	})

	It("walks the seed, submit and login scenario", func() {
		seed("a@x.com", "555-1111")

		_, out := submit(form("Al", "a@x.com", "Hi", "Design", "555-1111"))
		Expect(out.Status).To(Equal("success"))
		Expect(rowCount()).To(Equal(int64(2)))

		Expect(login("a@x.com", "555-1111").Status).To(Equal("success"))
		Expect(login("a@x.com", "555-2222")).To(Equal(apiResponse{Status: "error", Message: "Invalid email or phone number"}))
	})

	It("answers 500 when the store has no table", func() {
		Expect(gdb.Exec("DROP TABLE submissions").Error).To(Succeed())

		resp, err := http.PostForm(server.URL+"/submit-form", form("Al", "a@x.com", "Hi", "", "555-1111"))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		body, _ := io.ReadAll(resp.Body)
		Expect(string(body)).NotTo(ContainSubstring("no such table"))
	})

	It("serves health, readiness and metrics", func() {
		resp, err := http.Get(server.URL + "/healthz")
		Expect(err).NotTo(HaveOccurred())
		Expect(decode(resp).Status).To(Equal("ok"))

		resp, err = http.Get(server.URL + "/readyz")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(decode(resp).Status).To(Equal("ready"))

		resp, err = http.Get(server.URL + "/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		Expect(string(body)).To(ContainSubstring("http_request_duration_seconds"))
	})

	It("answers CORS preflight for the form", func() {
		req, err := http.NewRequest(http.MethodOptions, server.URL+"/submit-form", nil)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})
