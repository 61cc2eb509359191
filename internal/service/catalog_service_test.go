package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seatplan-pro/internal/dto"
	"seatplan-pro/internal/model"
)

// ── 测试辅助 ──

func setupTestCatalogService() (CatalogService, *testRepos) {
	repo, mocks := newTestRepos()
	return NewCatalogService(repo, zap.NewNop()), mocks
}

// buildImportFile 生成内存中的考生导入 Excel
func buildImportFile(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatalf("写入测试行失败: %v", err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成测试 Excel 失败: %v", err)
	}
	return buf
}

// ── 列表 ──

func TestCatalogService_ListDepartments_OrderedByCode(t *testing.T) {
	svc, _ := setupTestCatalogService()

	depts, err := svc.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments 应成功: %v", err)
	}
	if len(depts) != 2 {
		t.Fatalf("期望 2 个院系，实际 %d", len(depts))
	}
	if depts[0].Code != "CST" || depts[1].Code != "CT" {
		t.Errorf("期望按代码排序 [CST CT]，实际 [%s %s]", depts[0].Code, depts[1].Code)
	}
}

func TestCatalogService_ListRooms_FilterByBuilding(t *testing.T) {
	svc, mocks := setupTestCatalogService()
	mocks.room.add("r1", 30, 5, 6)
	other := mocks.room.add("r2", 30, 5, 6)
	other.BuildingID = "bld-B2"

	rooms, err := svc.ListRooms(context.Background(), &dto.RoomListRequest{BuildingID: "bld-B2"})
	if err != nil {
		t.Fatalf("ListRooms 应成功: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r2" {
		t.Errorf("期望只返回 r2，实际 %+v", rooms)
	}
}

// ── 监考教师上传 ──

func TestCatalogService_UploadInvigilators_DerivesRank(t *testing.T) {
	svc, mocks := setupTestCatalogService()

	req := &dto.UploadInvigilatorsRequest{Invigilators: []dto.InvigilatorInput{
		{Name: "Sarah Ahmed", Designation: "Chief Instructor", DepartmentID: "dept-cst"},
		{Name: "Michael Johnson", Designation: "Instructor"},
		{Name: "Lisa Chen", Designation: "Lecturer", Rank: "junior"},
	}}

	result, err := svc.UploadInvigilators(context.Background(), req)
	if err != nil {
		t.Fatalf("UploadInvigilators 应成功: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("期望 count=3，实际=%d", result.Count)
	}

	wantRanks := []string{"chief", "main", "junior"}
	for i, inv := range mocks.invigilator.invigilators {
		if inv.Rank != wantRanks[i] {
			t.Errorf("第 %d 位期望 rank=%s，实际=%s", i+1, wantRanks[i], inv.Rank)
		}
	}
	if mocks.invigilator.invigilators[0].DepartmentID == nil {
		t.Error("期望保留院系 ID")
	}
}

func TestCatalogService_UploadInvigilators_UnknownDesignation(t *testing.T) {
	svc, mocks := setupTestCatalogService()

	req := &dto.UploadInvigilatorsRequest{Invigilators: []dto.InvigilatorInput{
		{Name: "A", Designation: "Instructor"},
		{Name: "B", Designation: "Professor"},
	}}

	_, err := svc.UploadInvigilators(context.Background(), req)
	if !errors.Is(err, ErrUnknownDesignation) {
		t.Errorf("期望 ErrUnknownDesignation，实际: %v", err)
	}
	if len(mocks.invigilator.invigilators) != 0 {
		t.Error("校验失败时不应写入任何记录")
	}
}

func TestCatalogService_UploadInvigilators_UnknownDepartment(t *testing.T) {
	svc, _ := setupTestCatalogService()

	req := &dto.UploadInvigilatorsRequest{Invigilators: []dto.InvigilatorInput{
		{Name: "A", Designation: "Instructor", DepartmentID: "dept-missing"},
	}}

	_, err := svc.UploadInvigilators(context.Background(), req)
	if !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

func TestCatalogService_UploadInvigilators_RepoError(t *testing.T) {
	svc, mocks := setupTestCatalogService()
	mocks.invigilator.createErr = errMockDB

	req := &dto.UploadInvigilatorsRequest{Invigilators: []dto.InvigilatorInput{
		{Name: "A", Designation: "Instructor"},
	}}
	if _, err := svc.UploadInvigilators(context.Background(), req); !errors.Is(err, errMockDB) {
		t.Errorf("期望透传数据库错误，实际: %v", err)
	}
}

// ── 考生上传 ──

func TestCatalogService_UploadStudents_ResolvesDepartmentCode(t *testing.T) {
	svc, mocks := setupTestCatalogService()

	req := &dto.UploadStudentsRequest{Students: []dto.StudentInput{
		{RollNumber: "CST001", Name: "Ali", DepartmentCode: "cst"},
		{RollNumber: "CT001", Name: "Zara", DepartmentID: "dept-ct"},
	}}

	result, err := svc.UploadStudents(context.Background(), req)
	if err != nil {
		t.Fatalf("UploadStudents 应成功: %v", err)
	}
	if result.Count != 2 {
		t.Errorf("期望 count=2，实际=%d", result.Count)
	}
	if got := mocks.student.students["CST001"].DepartmentID; got != "dept-cst" {
		t.Errorf("期望院系代码 cst 解析为 dept-cst，实际=%s", got)
	}
}

func TestCatalogService_UploadStudents_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []dto.StudentInput
		wantErr error
	}{
		{
			name: "学号重复",
			inputs: []dto.StudentInput{
				{RollNumber: "S1", Name: "A", DepartmentCode: "CST"},
				{RollNumber: "S1", Name: "B", DepartmentCode: "CST"},
			},
			wantErr: ErrDuplicateRollNumber,
		},
		{
			name:    "院系代码不存在",
			inputs:  []dto.StudentInput{{RollNumber: "S1", Name: "A", DepartmentCode: "XYZ"}},
			wantErr: ErrDepartmentNotFound,
		},
		{
			name:    "缺少院系",
			inputs:  []dto.StudentInput{{RollNumber: "S1", Name: "A"}},
			wantErr: ErrStudentDepartmentMiss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := setupTestCatalogService()
			_, err := svc.UploadStudents(context.Background(), &dto.UploadStudentsRequest{Students: tt.inputs})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
			if len(mocks.student.students) != 0 {
				t.Error("整批拒绝时不应写入任何考生")
			}
		})
	}
}

func TestCatalogService_UploadStudents_UpsertExisting(t *testing.T) {
	svc, mocks := setupTestCatalogService()
	mocks.student.students["S1"] = &model.Student{StudentID: "stu-S1", RollNumber: "S1", Name: "Old", DepartmentID: "dept-ct", IsActive: true}

	req := &dto.UploadStudentsRequest{Students: []dto.StudentInput{
		{RollNumber: "S1", Name: "New", DepartmentCode: "CST"},
	}}
	if _, err := svc.UploadStudents(context.Background(), req); err != nil {
		t.Fatalf("UploadStudents 应成功: %v", err)
	}

	st := mocks.student.students["S1"]
	if st.StudentID != "stu-S1" {
		t.Errorf("期望保留原 ID，实际=%s", st.StudentID)
	}
	if st.Name != "New" || st.DepartmentID != "dept-cst" {
		t.Errorf("期望更新姓名与院系，实际 %+v", st)
	}
}

func TestCatalogService_ListStudents_Paginated(t *testing.T) {
	svc, mocks := setupTestCatalogService()
	mocks.student.addMany("dept-cst", "CST", 5)
	mocks.student.addMany("dept-ct", "CT", 3)

	req := &dto.StudentListRequest{DepartmentID: "dept-cst"}
	req.Page, req.PageSize = 2, 2

	list, total, err := svc.ListStudents(context.Background(), req)
	if err != nil {
		t.Fatalf("ListStudents 应成功: %v", err)
	}
	if total != 5 {
		t.Errorf("期望 total=5，实际=%d", total)
	}
	if len(list) != 2 || list[0].RollNumber != "CST0003" {
		t.Errorf("期望第二页从 CST0003 开始，实际 %+v", list)
	}
}

// ── Excel 导入 ──

func TestCatalogService_ParseStudentImportFile_FlexibleHeader(t *testing.T) {
	svc, _ := setupTestCatalogService()

	buf := buildImportFile(t, [][]interface{}{
		{"姓名", "院系代码", "学号"},
		{"Ali", "CST", "CST001"},
		{"", "", ""},
		{" Zara ", "CT", "CT001"},
	})

	rows, err := svc.ParseStudentImportFile(buf)
	if err != nil {
		t.Fatalf("ParseStudentImportFile 应成功: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望跳过空行后 2 条，实际 %d", len(rows))
	}
	if rows[1].Name != "Zara" || rows[1].RollNumber != "CT001" || rows[1].DepartmentCode != "CT" {
		t.Errorf("第二行解析错误: %+v", rows[1])
	}
}

func TestCatalogService_ParseStudentImportFile_Errors(t *testing.T) {
	svc, _ := setupTestCatalogService()

	t.Run("缺少必要列", func(t *testing.T) {
		buf := buildImportFile(t, [][]interface{}{{"Name", "Roll Number"}, {"Ali", "1"}})
		if _, err := svc.ParseStudentImportFile(buf); !errors.Is(err, ErrImportBadHeader) {
			t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
		}
	})

	t.Run("只有表头", func(t *testing.T) {
		buf := buildImportFile(t, [][]interface{}{{"Roll Number", "Name", "Department Code"}})
		if _, err := svc.ParseStudentImportFile(buf); !errors.Is(err, ErrImportNoData) {
			t.Errorf("期望 ErrImportNoData，实际: %v", err)
		}
	})

	t.Run("非 Excel 内容", func(t *testing.T) {
		if _, err := svc.ParseStudentImportFile(bytes.NewBufferString("not a zip")); !errors.Is(err, ErrImportBadFile) {
			t.Errorf("期望 ErrImportBadFile，实际: %v", err)
		}
	})
}

func TestCatalogService_ImportStudents(t *testing.T) {
	svc, mocks := setupTestCatalogService()

	buf := buildImportFile(t, [][]interface{}{
		{"Roll Number", "Name", "Department Code"},
		{"CST001", "Ali", "CST"},
		{"CST002", "Omar", "CST"},
	})

	result, err := svc.ImportStudents(context.Background(), buf)
	if err != nil {
		t.Fatalf("ImportStudents 应成功: %v", err)
	}
	if result.Count != 2 || len(mocks.student.students) != 2 {
		t.Errorf("期望导入 2 名考生，实际 count=%d stored=%d", result.Count, len(mocks.student.students))
	}
}
