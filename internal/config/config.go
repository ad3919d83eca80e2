package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used to resolve remote images.
var UserAgent = "Go-Contacts/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Contacts"
	AppID             = "com.github.tartampluch.go-contacts"
	BinaryName        = "go-contacts"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and exported files.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1

	// TempFilePattern suffixes the temporary file written before an export
	// replaces its destination.
	TempFilePattern = ".*.tmp"
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdGUI    = "gui"
	CmdServe  = "serve"
	CmdList   = "list"
	CmdExport = "export"

	FlagDebug  = "debug"
	FlagConfig = "config"
	FlagPort   = "port"
	FlagQuery  = "query"
	FlagSort   = "sort"
	FlagPage   = "page"
	FlagFormat = "format"
	FlagOutput = "output"

	FlagOutputShort = "o"

	FlagDescDebug  = "Enable debug logging"
	FlagDescConfig = "Path to a YAML settings file"
	FlagDescPort   = "Port of the local browser view (overrides settings)"
	FlagDescQuery  = "Search query applied to names and phone numbers"
	FlagDescSort   = "Sort expression: name, phone, name:desc, phone:asc"
	FlagDescPage   = "Page to display (1-based)"
	FlagDescFormat = "Export format: xlsx or pdf"
	FlagDescOutput = "Output file (defaults to contacts.xlsx / contacts.pdf)"

	ShortRoot   = "Searchable, sortable, paginated contact list"
	ShortGUI    = "Open the contact list window and the local browser view"
	ShortServe  = "Serve the contact list to the browser on localhost"
	ShortList   = "Print one page of the contact list to the terminal"
	ShortExport = "Export the filtered and sorted contact list"

	UseFileArg       = " [contacts-file]"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgExported      = "Exported %d contacts to %s\n"
	MsgPageFooter    = "page %d/%d (%d contacts)\n"
)

// -----------------------------------------------------------------------------
// Preferences (Fyne) & Window Layout
// -----------------------------------------------------------------------------

const (
	PrefPageSize   = "page_size"
	PrefServerPort = "server_port"
	PrefLastFile   = "last_file"
	PrefLastRun    = "last_run_version"

	ContactsWinWidth    = 720
	ContactsWinHeight   = 520
	SettingsWindowWidth = 420

	// Table Column IDs
	ColIDNumber = 0
	ColIDAvatar = 1
	ColIDName   = 2
	ColIDPhone  = 3
	ColCount    = 4

	// Table Layout
	ColWidthNumber = 90
	ColWidthAvatar = 110
	ColWidthName   = 260
	ColWidthPhone  = 200

	TablePlaceholder  = "Cell Content"
	HeaderPlaceholder = "Header"

	// Sorting Indicators
	SortIconAsc  = " ▲"
	SortIconDesc = " ▼"

	LayoutColumnsDouble = 2
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyHeadingCount    = "heading_count" // Requires Count
	TKeySortedBy        = "lbl_sorted_by"
	TKeySortName        = "sort_name"
	TKeySortPhone       = "sort_phone"
	TKeySearchHolder    = "search_placeholder"
	TKeyBtnSearch       = "btn_search"
	TKeyBtnExportXLSX   = "btn_export_xlsx"
	TKeyBtnExportPDF    = "btn_export_pdf"
	TKeyBtnOpen         = "btn_open"
	TKeyBtnBrowser      = "btn_browser"
	TKeyBtnSettings     = "btn_settings"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyColNumber       = "col_number"
	TKeyColAvatar       = "col_avatar"
	TKeyColName         = "col_name"
	TKeyColPhone        = "col_phone"
	TKeyAvatarAlt       = "avatar_alt" // Requires Name
	TKeyAvatarLink      = "avatar_link"
	TKeyEmptyState      = "empty_state"
	TKeyDocTitle        = "doc_title"
	TKeyDocPrinted      = "doc_printed" // Requires Timestamp
	TKeySheetName       = "sheet_name"
	TKeyLblPageSize     = "lbl_page_size"
	TKeyHelpPageSize    = "help_page_size"
	TKeyLblPort         = "lbl_server_port"
	TKeyHelpPort        = "help_port"
	TKeyNotifExported   = "notif_exported" // Requires File
	TKeyErrPortReq      = "err_port_required"
	TKeyErrPortNum      = "err_port_number"
	TKeyErrPortRange    = "err_port_range"
	TKeyErrPageSizeNum  = "err_page_size_number"
	TKeyErrPageSizeRng  = "err_page_size_range"
	TKeyPaginationLabel = "lbl_pagination"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort            = "18081"
	DefaultPageSize        = 5
	MinPageSize            = 1
	MaxPageSize            = 500
	DefaultLanguage        = "fr"
	DefaultCollation       = "fr"
	DefaultFallbackAvatar  = "https://picsum.photos/200/300"
	DefaultBrandingImage   = SchemeEmbedded + ":branding.png"
	DefaultSpreadsheetFile = "contacts.xlsx"
	DefaultDocumentFile    = "contacts.pdf"
	DefaultTimestampLayout = "02/01/2006 15:04:05"
	FirstPage              = 1
)

// Sort expression tokens accepted by the CLI and the HTTP query string.
const (
	SortTokenName  = "name"
	SortTokenPhone = "phone"
	SortTokenAsc   = "asc"
	SortTokenDesc  = "desc"
	SortSeparator  = ":"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// -----------------------------------------------------------------------------
// Input Formats & vCard
// -----------------------------------------------------------------------------

const (
	ExtJSON  = ".json"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"

	FallbackName = "Unknown"
)

// -----------------------------------------------------------------------------
// PDF Layout (millimetres, A4 portrait)
// -----------------------------------------------------------------------------

const (
	PDFOrientation = "P"
	PDFUnit        = "mm"
	PDFPageSize    = "A4"
	PDFFontFamily  = "Helvetica"
	PDFStyleBold   = "B"
	PDFStyleNormal = ""

	PDFTitleFontSize = 20
	PDFTitleY        = 4
	PDFTitleHeight   = 12
	PDFBodyFontSize  = 10
	PDFStampX        = 10
	PDFStampY        = 20
	PDFMargin        = 10
	PDFBottomMargin  = 15
	PDFTableStartY   = 30
	PDFHeaderHeight  = 8
	PDFRowHeight     = 22
	PDFThumbSize     = 20
	PDFCellPadding   = 1

	PDFBrandingX = 150
	PDFBrandingY = 10
	PDFBrandingW = 20
	PDFBrandingH = 15

	PDFColWidthNumber = 25
	PDFColWidthAvatar = 30
	PDFColWidthName   = 75
	PDFColWidthPhone  = 60

	ImageTypePNG = "PNG"
	ImageTypeJPG = "JPG"
	ImageTypeGIF = "GIF"

	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeGIF  = "image/gif"

	SniffLength = 512
)

// Title colour (RGB) of the PDF document.
const (
	PDFTitleRed   = 255
	PDFTitleGreen = 0
	PDFTitleBlue  = 0

	PDFHeaderGray = 230
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 60 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	MaxImageSize       = 16 * 1024 * 1024 // 16MB per avatar/branding image
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	SchemeFile         = "file"
	SchemeEmbedded     = "embedded"
	AddrSeparator      = ":"
	RouteRoot          = "/"
	RouteExportXLSX    = "/export/" + DefaultSpreadsheetFile
	RouteExportPDF     = "/export/" + DefaultDocumentFile
	ParamQuery         = "q"
	ParamSort          = "sort"
	ParamDirection     = "dir"
	ParamPage          = "page"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
	HeaderRetryAfter         = "Retry-After"
	HeaderAllow              = "Allow"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderUserAgent          = "User-Agent"
	HeaderIfNoneMatch        = "If-None-Match"

	MimeTextHTML        = "text/html; charset=utf-8"
	MimeXLSX            = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePDF             = "application/pdf"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
	// FormatAttachment expects the download file name.
	FormatAttachment = `attachment; filename="%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrPageSizeRange  = "page size must be between 1 and 500"
	ErrInvalidURL     = "invalid image reference"
	ErrProtocol       = "unsupported protocol scheme (http/https/file only)"
	ErrImageFetch     = "failed to load image"
	ErrImageType      = "unsupported image type"
	ErrImageStatus    = "image server returned unexpected status"
	ErrImageTooLarge  = "image exceeds the maximum size"
	ErrEmbeddedImage  = "unknown embedded image"
	ErrOpenContacts   = "failed to open contacts file"
	ErrDecodeJSON     = "failed to decode contacts JSON"
	ErrDecodeVCard    = "failed to decode vCard stream"
	ErrFormatUnknown  = "unsupported contacts file format"
	ErrPhoneValue     = "phone number must be a number or a string"
	ErrSortExpr       = "invalid sort expression"
	ErrSortKey        = "unknown sort key"
	ErrSortDirection  = "unknown sort direction"
	ErrExportFormat   = "unsupported export format"
	ErrSpreadsheet    = "failed to write spreadsheet"
	ErrDocument       = "failed to write PDF document"
	ErrBranding       = "failed to load branding image"
	ErrAvatar         = "failed to load avatar image"
	ErrSettingsRead   = "failed to read settings file"
	ErrSettingsParse  = "failed to parse settings file"
	ErrCollation      = "invalid collation language"
	ErrTemplate       = "failed to render contacts page"
	ErrWriteResp      = "failed to write response body"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrExportFailed   = "export failed"
	ErrCreateOutput   = "failed to create output file"
	ErrOpenBrowser    = "failed to open browser view"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Contacts loading, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	TitleStartupError = "Startup Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	MsgAppStop       = "Application stopped gracefully"
	MsgAppStarting   = "Starting application"
	MsgCtxCancel     = "Context cancelled, shutting down UI"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgContactsSwap  = "Contacts snapshot updated"
	MsgContactsLoad  = "Contacts loaded"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgDerived       = "View derived"
	MsgMemoHit       = "Derived view served from memo"
	MsgSorted        = "Contacts sorted"
	MsgExportStart   = "Export started"
	MsgExportDone    = "Export finished"
	MsgImageFetch    = "Loading image"
	MsgImageStatus   = "Image server returned error status"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgOpenWin       = "Opening contacts window"
	MsgOpenSettings  = "Opening settings window"
	MsgSaveSettings  = "Saving preferences"
	MsgSettingsFile  = "Settings loaded"
	MsgBadParam      = "Ignoring invalid view parameter"
	MsgPageRendered  = "Contacts page rendered"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyFormat    = "format"
	LogKeyValue     = "value"
	LogKeyParam     = "param"
	LogKeyCount     = "count"
	LogKeyFiltered  = "filtered"
	LogKeyPage      = "page"
	LogKeyPages     = "total_pages"
	LogKeyQuery     = "query"
	LogKeySort      = "sort"
	LogKeyDirection = "direction"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyPageSize  = "page_size"
	LogKeyCommand   = "command"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompView     = "view"
	CompContacts = "contacts"
	CompExport   = "export"
	CompImages   = "images"
	CompServer   = "server"
	CompCLI      = "cli"
	CompI18n     = "i18n"
	CompConfig   = "config"
)

// -----------------------------------------------------------------------------
// Port Limits
// -----------------------------------------------------------------------------

const (
	MinPort = 1
	MaxPort = 65535
)
