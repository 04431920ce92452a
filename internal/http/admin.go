package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"kama/internal/domain"
	"kama/internal/money"
	"kama/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeaders = []string{"ID", "Status", "Total", "Total (formatted)", "Items", "Quantity", "CreatedAt"}

// @Summary Dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Stats
// @Router /admin/stats [get]
func (s *Server) stats(c *gin.Context) {
	st, err := s.svc.Stats.Stats(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary Export orders to Excel
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "PENDING, COMPLETED or CANCELLED"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Router /admin/orders/export [get]
func (s *Server) exportOrders(c *gin.Context) {
	f := repository.OrderFilter{Status: domain.OrderStatus(c.Query("status"))}
	orders, err := s.svc.Orders.List(c, f)
	if err != nil {
		writeError(c, err)
		return
	}
	file, err := ordersWorkbook(orders)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		// заголовки уже отправлены, остаётся только лог
		c.Error(err)
	}
}

// ordersWorkbook один лист, одна строка на заказ
func ordersWorkbook(orders []domain.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}
	for _, o := range orders {
		lines := make([]string, 0, len(o.Items))
		qty := 0
		for _, it := range o.Items {
			lines = append(lines, fmt.Sprintf("%s (%s/%s) x%d", it.Name, it.Color, it.Size, it.Quantity))
			qty += it.Quantity
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.Total)
		row.AddCell().SetValue(money.Format(o.Total))
		row.AddCell().SetValue(strings.Join(lines, "; "))
		row.AddCell().SetValue(qty)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
