package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// SessionService 考试作答记录：按考试查询、答案明细、删除与 PDF 报告
type SessionService struct {
	client *api.Client
}

func NewSessionService(c *api.Client) *SessionService {
	return &SessionService{client: c}
}

func (s *SessionService) ByExam(ctx context.Context, examID string) ([]model.Session, error) {
	return s.client.ExamSessions().List(ctx, examID)
}

func (s *SessionService) Answers(ctx context.Context, sessionID string) ([]model.Answer, error) {
	return s.client.Answers().List(ctx, sessionID)
}

func (s *SessionService) Delete(ctx context.Context, sessionID string, confirmed bool) error {
	if !confirmed {
		return util.ErrConfirmationDeclined
	}
	return s.client.Sessions().Delete(ctx, sessionID)
}

// Report 生成一次作答的 PDF：概要 + 每道题的作答与得分
func (s *SessionService) Report(ctx context.Context, sessionID string, w io.Writer) error {
	sess, err := s.client.Sessions().Get(ctx, sessionID)
	if err != nil {
		return err
	}
	answers, err := s.Answers(ctx, sessionID)
	if err != nil {
		return err
	}
	return writeReport(w, sess, answers)
}

func writeReport(w io.Writer, sess model.Session, answers []model.Answer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// 内置字体只支持 cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	title := sess.ExamTitle()
	if title == "" {
		title = "Exam " + sess.ExamID
	}
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	candidate := sess.Username()
	if candidate == "" {
		candidate = sess.UserID
	}
	summary := []string{
		"Session: " + sess.SessionID,
		"Candidate: " + candidate,
		"Started: " + formatTime(sess.StartTime),
		"Finished: " + formatTime(sess.FinishedAt),
		fmt.Sprintf("Final score: %.1f   Correct: %d   Band: %.1f", sess.FinalScore, sess.TotalCorrect, sess.BandScore),
	}
	for _, line := range summary {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	widths := []float64{12, 108, 30, 30}
	for i, h := range []string{"#", "Response", "Correct", "Score"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, a := range answers {
		correct := "No"
		if a.IsCorrect {
			correct = "Yes"
		}
		response := a.Response()
		if r := []rune(response); len(r) > 70 {
			response = string(r[:67]) + "..."
		}
		pdf.CellFormat(widths[0], 7, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(response), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, correct, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.1f", a.ScoreEarned), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	if len(answers) == 0 {
		pdf.Cell(0, 7, "No answers recorded.")
	}

	return pdf.Output(w)
}

func formatTime(t model.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(util.TimeFormat)
}
