package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seatplan-pro/internal/model"
	"seatplan-pro/internal/seating"
)

// 监考岗位中文名
var roleLabels = map[string]string{
	string(seating.RoleChief):  "主监考",
	string(seating.RoleMain):   "监考",
	string(seating.RoleJunior): "助理监考",
}

// ═══════════════════════════════════════════════════════════
// ExportSeatChart，导出座位图 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "汇总"：每个考场一行（教室、编排方式、人数、监考）
//   - 每个考场一个 Sheet：按 行 × 列 网格呈现，单元格为 "座号. 学号 姓名"

func (s *seatPlanService) ExportSeatChart(ctx context.Context, examID string) ([]byte, string, error) {
	exam, examRooms, err := s.loadPlan(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	seatStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "#999999", Style: 1},
			{Type: "right", Color: "#999999", Style: 1},
			{Type: "top", Color: "#999999", Style: 1},
			{Type: "bottom", Color: "#999999", Style: 1},
		},
	})

	// 汇总页
	summary := "汇总"
	idx, _ := f.NewSheet(summary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(summary, "A1", fmt.Sprintf("%s %s（%s 第%s场）", exam.Name, exam.Course, exam.Date.Format(examDateLayout), exam.Shift))
	headers := []string{"序号", "考场", "教室名称", "楼层", "编排方式", "考生人数", "主监考", "监考", "助理监考"}
	for i, h := range headers {
		f.SetCellValue(summary, cell(colName(i), 2), h)
	}
	f.SetCellStyle(summary, "A2", cell(colName(len(headers)-1), 2), headerStyle)
	f.SetColWidth(summary, "A", "A", 6)
	f.SetColWidth(summary, "B", "C", 16)
	f.SetColWidth(summary, "G", "I", 18)

	for i := range examRooms {
		er := &examRooms[i]
		row := i + 3
		number, name, floor := roomLabels(er.Room)
		duties := dutyNames(er)

		f.SetCellValue(summary, cell("A", row), er.Sequence)
		f.SetCellValue(summary, cell("B", row), number)
		f.SetCellValue(summary, cell("C", row), name)
		f.SetCellValue(summary, cell("D", row), floor)
		f.SetCellValue(summary, cell("E", row), er.SeatingPattern)
		f.SetCellValue(summary, cell("F", row), len(er.SeatAssignments))
		f.SetCellValue(summary, cell("G", row), duties[string(seating.RoleChief)])
		f.SetCellValue(summary, cell("H", row), duties[string(seating.RoleMain)])
		f.SetCellValue(summary, cell("I", row), duties[string(seating.RoleJunior)])

		if err := writeRoomSheet(f, er, headerStyle, seatStyle); err != nil {
			s.logger.Error("写入考场座位图失败", zap.String("exam_room_id", er.ExamRoomID), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("座位表_%s_%s.xlsx", sanitizeFilename(exam.Name), exam.Date.Format(examDateLayout))
	return buf.Bytes(), filename, nil
}

// writeRoomSheet 写入单个考场的座位网格
func writeRoomSheet(f *excelize.File, er *model.ExamRoom, headerStyle, seatStyle int) error {
	number, name, _ := roomLabels(er.Room)
	sheet := roomSheetName(er.Sequence, number)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows, cols := 0, 0
	if er.Room != nil {
		rows, cols = er.Room.Rows, er.Room.Columns
	}
	// 目录缺失时按已分配座位推断网格大小
	for _, sa := range er.SeatAssignments {
		rows = max(rows, sa.Row)
		cols = max(cols, sa.Column)
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s %s  编排方式: %s  考生: %d 人", number, name, er.SeatingPattern, len(er.SeatAssignments)))

	f.SetCellValue(sheet, "A2", "排\\列")
	for c := 1; c <= cols; c++ {
		f.SetCellValue(sheet, cell(colName(c), 2), c)
	}
	for r := 1; r <= rows; r++ {
		f.SetCellValue(sheet, cell("A", r+2), fmt.Sprintf("第%d排", r))
		f.SetRowHeight(sheet, r+2, 36)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(cols), 2), headerStyle)
	f.SetCellStyle(sheet, "A3", cell("A", rows+2), headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	if cols > 0 {
		f.SetColWidth(sheet, "B", colName(cols), 16)
		f.SetCellStyle(sheet, "B3", cell(colName(cols), rows+2), seatStyle)
	}

	for _, sa := range er.SeatAssignments {
		text := fmt.Sprintf("%d.", sa.SeatNumber)
		if sa.Student != nil {
			text = fmt.Sprintf("%d. %s\n%s", sa.SeatNumber, sa.Student.RollNumber, sa.Student.Name)
		}
		f.SetCellValue(sheet, cell(colName(sa.Column), sa.Row+2), text)
	}

	// 监考信息置于网格下方
	line := rows + 4
	for _, ia := range er.InvigilatorAssignments {
		label := roleLabels[ia.Role]
		inv := ia.InvigilatorID
		if ia.Invigilator != nil {
			inv = ia.Invigilator.Name
		}
		f.SetCellValue(sheet, cell("A", line), label)
		f.SetCellValue(sheet, cell("B", line), inv)
		line++
	}
	return nil
}

// ═══════════════════════════════════════════════════════════
// ExportDutyCalendar，导出监考日程 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条监考分工生成一个 VEVENT；场次可识别时使用固定时段，否则为全天事件。

func (s *seatPlanService) ExportDutyCalendar(ctx context.Context, examID string) ([]byte, string, error) {
	exam, examRooms, err := s.loadPlan(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//seatplan//duty calendar//ZH")

	start, end, timed := shiftWindow(exam.Date, exam.Shift)
	stamp := time.Now().UTC()

	for i := range examRooms {
		er := &examRooms[i]
		number, name, _ := roomLabels(er.Room)
		for _, ia := range er.InvigilatorAssignments {
			event := cal.AddEvent(fmt.Sprintf("%s-%s@seatplan", er.ExamRoomID, ia.Role))
			event.SetDtStampTime(stamp)
			if timed {
				event.SetStartAt(start)
				event.SetEndAt(end)
			} else {
				event.SetAllDayStartAt(start)
				event.SetAllDayEndAt(start.AddDate(0, 0, 1))
			}

			who := ia.InvigilatorID
			if ia.Invigilator != nil {
				who = ia.Invigilator.Name
			}
			event.SetSummary(fmt.Sprintf("%s %s - %s", roleLabels[ia.Role], exam.Name, number))
			event.SetLocation(strings.TrimSpace(number + " " + name))
			event.SetDescription(fmt.Sprintf("监考教师: %s\n课程: %s\n考生人数: %d", who, exam.Course, len(er.SeatAssignments)))
		}
	}

	filename := fmt.Sprintf("监考安排_%s_%s.ics", sanitizeFilename(exam.Name), exam.Date.Format(examDateLayout))
	return []byte(cal.Serialize()), filename, nil
}

// shiftWindow 场次对应时段：第一场 09:00-12:00，第二场 14:00-17:00
func shiftWindow(date time.Time, shift string) (start, end time.Time, timed bool) {
	y, m, d := date.Date()
	loc := date.Location()
	switch strings.ToLower(strings.TrimSpace(shift)) {
	case "1", "1st", "first", "morning", "上午":
		return time.Date(y, m, d, 9, 0, 0, 0, loc), time.Date(y, m, d, 12, 0, 0, 0, loc), true
	case "2", "2nd", "second", "afternoon", "下午":
		return time.Date(y, m, d, 14, 0, 0, 0, loc), time.Date(y, m, d, 17, 0, 0, 0, loc), true
	}
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return day, day, false
}

// ── 辅助函数 ──

func roomLabels(room *model.Room) (number, name string, floor int) {
	if room == nil {
		return "-", "", 0
	}
	return room.Number, room.Name, room.Floor
}

// dutyNames 岗位 → 教师姓名
func dutyNames(er *model.ExamRoom) map[string]string {
	names := make(map[string]string, len(er.InvigilatorAssignments))
	for _, ia := range er.InvigilatorAssignments {
		if ia.Invigilator != nil {
			names[ia.Role] = ia.Invigilator.Name
		} else {
			names[ia.Role] = ia.InvigilatorID
		}
	}
	return names
}

// roomSheetName Excel 工作表名不超过 31 个字符且不含 []:*?/\
func roomSheetName(seq int, number string) string {
	name := fmt.Sprintf("%02d-%s", seq, number)
	name = strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-").Replace(name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

func sanitizeFilename(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_", "\"", "", ":", "_").Replace(strings.TrimSpace(s))
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
