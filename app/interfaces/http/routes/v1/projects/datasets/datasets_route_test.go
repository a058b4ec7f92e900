package datasets

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/lead/leadtest"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/project/projecttest"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
)

type memoryDatasets struct {
	items []*dataset.Dataset
}

func (m *memoryDatasets) Create(ctx context.Context, d *dataset.Dataset) error {
	d.ID = uint(len(m.items) + 1)
	m.items = append(m.items, d)
	return nil
}

func (m *memoryDatasets) FindByProjectID(ctx context.Context, projectID uint, p *query.Pagination) ([]*dataset.Dataset, error) {
	var out []*dataset.Dataset
	for _, d := range m.items {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryDatasets) CountByProjectID(ctx context.Context, projectID uint) (int64, error) {
	out, _ := m.FindByProjectID(ctx, projectID, nil)
	return int64(len(out)), nil
}

type fixture struct {
	route    *DatasetsRoute
	leads    *leadtest.LeadRepository
	datasets *memoryDatasets
	project  *project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	projects := project.NewService(projecttest.NewProjectRepository())
	leadSvc, leadRepo, _ := leadtest.NewService()
	datasets := &memoryDatasets{}
	p, err := projects.CreateProjectWithPublicID(context.Background(), &project.Project{Name: "GreenCo Outreach"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := leadSvc.AddLeads(context.Background(), p.ID, []lead.NewLead{{CompanyName: "acme corp", Source: lead.SourceDiscovered}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &fixture{
		route:    NewDatasetsRoute(dataset.NewService(datasets, leadSvc, projects)),
		leads:    leadRepo,
		datasets: datasets,
		project:  p,
	}
}

func (f *fixture) upload(t *testing.T, fields map[string]string, csv string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if csv != "" {
		part, err := writer.CreateFormFile("file", "companies.csv")
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		if _, err := part.Write([]byte(csv)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/v1/projects/x/datasets", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	middleware.SetProject(c, f.project)
	return c, w
}

func TestImportDatasetMergesIntoExistingLead(t *testing.T) {
	f := newFixture(t)
	c, w := f.upload(t, map[string]string{"lead_column": "company"}, "company,region\nAcme Corp,EU\nGlobex,US\nglobex,APAC\n")

	f.route.ImportDataset(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body ImportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Rows != 3 || body.Updated != 1 || body.Created != 1 || body.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", body)
	}
	if body.Dataset.Name != "companies.csv" || body.Outcomes[2].Action != string(dataset.RowSkipped) {
		t.Fatalf("unexpected body: %+v", body)
	}
	leads, _ := f.leads.FindByFilter(context.Background(), lead.LeadFilter{ProjectID: &f.project.ID}, nil)
	if len(leads) != 2 || leads[0].Attributes["region"] != "EU" {
		t.Fatalf("unexpected leads: %+v", leads)
	}
}

func TestImportDatasetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	csv := "company,region\nAcme Corp,EU\nGlobex,US\n"
	for i := 0; i < 2; i++ {
		c, w := f.upload(t, map[string]string{"lead_column": "company", "name": "batch"}, csv)
		f.route.ImportDataset(c)
		if w.Code != http.StatusCreated {
			t.Fatalf("import %d: expected 201, got %d: %s", i, w.Code, w.Body.String())
		}
	}
	n, _ := f.leads.Count(context.Background(), lead.LeadFilter{ProjectID: &f.project.ID})
	if n != 2 {
		t.Fatalf("expected 2 leads, got %d", n)
	}
}

func TestImportDatasetRejects(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		fields map[string]string
		csv    string
	}{
		{name: "no file", fields: map[string]string{"lead_column": "company"}},
		{name: "no lead column", fields: map[string]string{}, csv: "company\nAcme\n"},
		{name: "lead column not in header", fields: map[string]string{"lead_column": "name"}, csv: "company\nAcme\n"},
		{name: "bad flag", fields: map[string]string{"lead_column": "company", "enrichment_column_exists": "maybe"}, csv: "company\nAcme\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := f.upload(t, tt.fields, tt.csv)
			f.route.ImportDataset(c)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
	if len(f.datasets.items) != 0 {
		t.Fatalf("no dataset should be recorded, got %d", len(f.datasets.items))
	}
}

func TestListDatasets(t *testing.T) {
	f := newFixture(t)
	c, _ := f.upload(t, map[string]string{"lead_column": "company"}, "company\nAcme\n")
	f.route.ImportDataset(c)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/projects/x/datasets", nil)
	middleware.SetProject(c, f.project)
	f.route.ListDatasets(c)

	var body struct {
		Data  []DatasetResponse `json:"data"`
		Total int64             `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Data[0].RowCount != 1 {
		t.Fatalf("unexpected list: %+v", body)
	}
}
