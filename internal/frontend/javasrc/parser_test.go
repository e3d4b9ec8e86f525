package javasrc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archlint/internal/extract"
	"github.com/leapstack-labs/archlint/pkg/core"
)

const orderService = `package com.acme.billing;

import com.acme.billing.create.CreateInvoiceHandler;
import com.acme.shared.Money;
import java.util.List;

@Service
@SuppressArchRule("R5")
public class BillingService {
    private final CreateInvoiceHandler handler;

    @Transactional
    public List<Money> totals(InvoiceEntity invoice) {
        return List.of();
    }
}
`

func TestParse_TypeDeclaration(t *testing.T) {
	decls, err := Parse(context.Background(), "BillingService.java", []byte(orderService))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	d := decls[0]
	assert.Equal(t, "BillingService", d.Name)
	assert.Equal(t, "com.acme.billing", d.Namespace)
	assert.Equal(t, core.DeclType, d.Kind)
	assert.Equal(t, "public", d.Visibility)
	assert.Equal(t, "BillingService.java:7", d.Location)
	assert.Equal(t, []string{"@Service", `@SuppressArchRule("R5")`}, d.Markers)
	assert.Equal(t, []string{"@Transactional"}, d.MemberMarkers)

	assert.Contains(t, d.References, "com.acme.billing.create.CreateInvoiceHandler")
	assert.Contains(t, d.References, "com.acme.shared.Money")
	assert.Contains(t, d.References, "java.util.List")
	assert.Contains(t, d.References, "com.acme.billing.InvoiceEntity")
	assert.NotContains(t, d.References, "com.acme.billing.BillingService")
	assert.NotContains(t, d.References, "Service")
}

func TestParse_Visibility(t *testing.T) {
	src := `package com.acme.billing;

class Hidden {}
`
	decls, err := Parse(context.Background(), "Hidden.java", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "package", decls[0].Visibility)
}

func TestParse_InterfaceEnumRecord(t *testing.T) {
	src := `package com.acme.billing;

public interface InvoiceRepository extends Repo<InvoiceEntity> {}

enum BillingErrorCode { MISSING }

record Amount(long cents) {}
`
	decls, err := Parse(context.Background(), "Types.java", []byte(src))
	require.NoError(t, err)

	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"InvoiceRepository", "BillingErrorCode", "Amount"}, names)
	assert.Contains(t, decls[0].References, "com.acme.billing.InvoiceEntity")
	assert.Contains(t, decls[0].References, "com.acme.billing.Repo")
}

func TestParse_ReferenceQualification(t *testing.T) {
	src := `package com.acme.billing.create;

import com.acme.billing.BillingService;
import com.acme.common.*;
import static com.acme.common.Money.ZERO;

@RestController
public class CreateInvoiceController {
    private BillingService billing;

    public Response handle(Request request, Invoice.Line line) {
        return new Response();
    }

    public <T extends Auditable> T audit(T value) {
        return value;
    }

    record Request(String customer) {}

    static class Response {
        Request.Builder builder;
    }
}
`
	decls, err := Parse(context.Background(), "CreateInvoiceController.java", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	assert.ElementsMatch(t, []string{
		"com.acme.billing.BillingService",
		"com.acme.billing.create.Invoice|com.acme.common.Invoice",
		"com.acme.billing.create.Auditable|com.acme.common.Auditable",
	}, decls[0].References)
}

func TestParse_QualifiedNestedReference(t *testing.T) {
	src := `package com.acme.billing;

import java.util.Map;

public class Ledger {
    private com.acme.shipping.Parcel.Label label;
    private Map.Entry<String, Long> last;
}
`
	decls, err := Parse(context.Background(), "Ledger.java", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	assert.Contains(t, decls[0].References, "com.acme.shipping.Parcel")
	assert.Contains(t, decls[0].References, "java.util.Map")
	assert.NotContains(t, decls[0].References, "com.acme.shipping.Parcel.Label")
}

func TestParse_PackageInfo(t *testing.T) {
	src := `@SuppressArchRule("R7")
package com.acme.legacy;
`
	decls, err := Parse(context.Background(), "package-info.java", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, core.DeclNamespace, decls[0].Kind)
	assert.Equal(t, "com.acme.legacy", decls[0].Namespace)
	assert.Equal(t, []string{`@SuppressArchRule("R7")`}, decls[0].Markers)
}

func TestParse_SyntaxErrorIsWarning(t *testing.T) {
	src := `package com.acme.billing;

public class Broken {
    void run( {
}
`
	_, err := Parse(context.Background(), "Broken.java", []byte(src))
	require.Error(t, err)

	var ws extract.Warnings
	require.True(t, errors.As(err, &ws))
	assert.Equal(t, "Broken.java", ws[0].Source)
}

func TestSource_ReadsFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "src", "com", "acme")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "BillingService.java")
	require.NoError(t, os.WriteFile(path, []byte(orderService), 0o600))

	src := NewSource(path, root)
	assert.Equal(t, "src/com/acme/BillingService.java", src.Name())

	decls, err := src.Declarations(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "src/com/acme/BillingService.java:7", decls[0].Location)
}

func TestSource_MissingFile(t *testing.T) {
	src := NewSource(filepath.Join(t.TempDir(), "Nope.java"), "")
	_, err := src.Declarations(context.Background())
	require.Error(t, err)

	var ws extract.Warnings
	assert.False(t, errors.As(err, &ws))
}
