package browser

import "fmt"

// candidatesJS collects the visible candidate elements for a locator together
// with their accessible names. `this` is either the window of a page/frame or
// the element a locator is scoped to.
const candidatesJS = `
	const root = (this instanceof Element) ? this : document;
	const roles = {
		button: 'button, [role="button"], input[type="button"], input[type="submit"], input[type="reset"]',
		textbox: 'input:not([type]), input[type="text"], input[type="email"], input[type="password"], input[type="search"], input[type="number"], textarea, [role="textbox"]',
		combobox: 'select, [role="combobox"]',
		link: 'a[href], [role="link"]',
		row: 'tr, [role="row"]',
		heading: 'h1, h2, h3, h4, h5, h6, [role="heading"]',
		checkbox: 'input[type="checkbox"], [role="checkbox"]',
	};
	const text = (el) => (el.innerText || el.textContent || '').trim();
	const byIds = (ids) => ids.split(/\s+/).map((id) => {
		const ref = (root.ownerDocument || document).getElementById(id);
		return ref ? text(ref) : '';
	}).join(' ').trim();
	const labelFor = (el) => {
		if (!el.id) return '';
		const doc = el.ownerDocument || document;
		const label = doc.querySelector('label[for="' + CSS.escape(el.id) + '"]');
		return label ? text(label) : '';
	};
	const ariaName = (el) => {
		const aria = el.getAttribute('aria-label');
		if (aria) return aria;
		const by = el.getAttribute('aria-labelledby');
		if (by) return byIds(by);
		return '';
	};
	const ownText = (el) => Array.from(el.childNodes)
		.filter((n) => n.nodeType === Node.TEXT_NODE)
		.map((n) => n.textContent)
		.join('')
		.trim();
	const visible = (el) => el.getClientRects().length > 0;

	let selector;
	let name;
	switch (kind) {
	case 'placeholder':
		selector = '[placeholder]';
		name = (el) => el.getAttribute('placeholder') || '';
		break;
	case 'role':
		selector = roles[role] || '[role="' + role + '"]';
		name = (el) => ariaName(el) || el.getAttribute('title') || (el.tagName === 'INPUT' ? el.value : '') || text(el);
		break;
	case 'label':
		selector = '[aria-label], [aria-labelledby], input[id], select[id], textarea[id]';
		name = (el) => ariaName(el) || labelFor(el);
		break;
	case 'text':
		selector = '*';
		name = ownText;
		break;
	default:
		selector = css;
		name = text;
	}

	const candidates = Array.from(root.querySelectorAll(selector))
		.filter(visible)
		.map((el) => ({ el: el, name: String(name(el) || '') }));
`

var namesJS = fmt.Sprintf(`function (kind, role, css) {%s
	return candidates.map((c) => c.name);
}`, candidatesJS)

var elementJS = fmt.Sprintf(`function (kind, role, css, idx) {%s
	return idx < candidates.length ? candidates[idx].el : null;
}`, candidatesJS)
