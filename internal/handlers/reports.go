package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ngplus/api/internal/reports"
	"ngplus/api/internal/web"
)

func (h HandlerSet) ReportPDF(c *gin.Context) {
	out, err := h.reportService.PDF(c.Request.Context())
	if err != nil {
		web.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reports.PDFFilename))
	c.Data(http.StatusOK, reports.PDFContentType, out)
}

func (h HandlerSet) ReportXLSX(c *gin.Context) {
	out, err := h.reportService.XLSX(c.Request.Context())
	if err != nil {
		web.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", reports.XLSXFilename))
	c.Data(http.StatusOK, reports.XLSXContentType, out)
}
